// Package httpapi implements the generation-request HTTP surface from
// spec.md §6: POST /api/crosswords, GET /api/crosswords/{id}, and GET
// /api/crosswords/{id}/events. It is the thin, out-of-scope shell around
// THE CORE (grapheme, placement, polyomino) that the teacher's own
// server.go/main.go are adapted into.
package httpapi

import (
	"github.com/bodul/crossword/internal/serializer"
)

// WordInput is one entry of a manual-mode request's words list.
type WordInput struct {
	Word      string  `json:"word"`
	Clue      string  `json:"clue"`
	Row       *int    `json:"row,omitempty"`
	Col       *int    `json:"col,omitempty"`
	Direction *string `json:"direction,omitempty"`
}

// GenerateRequest is the POST /api/crosswords request body (spec.md §6).
type GenerateRequest struct {
	SessionID           string      `json:"sessionId"`
	ContentLanguage      string      `json:"contentLanguage"`
	Mode                 string      `json:"mode"`
	InputType            string      `json:"inputType"`
	InputValue           string      `json:"inputValue"`
	NumItems             int         `json:"numItems"`
	UserInstructions     string      `json:"userInstructions"`
	Words                []WordInput `json:"words"`
	GridSizeX            int         `json:"gridSizeX"`
	GridSizeY            int         `json:"gridSizeY"`
	RemoveUnplacedWords  *bool       `json:"removeUnplacedWords"`
	Seed                 *int64      `json:"seed"`
}

// PuzzleView is the puzzle shape embedded in a successful response.
type PuzzleView struct {
	Grid          [][]*string             `json:"grid"`
	Placements    []serializer.WordEntry  `json:"placements"`
	UnplacedWords []serializer.WordEntry  `json:"unplacedWords"`
	GridWidth     int                     `json:"gridWidth"`
	GridHeight    int                     `json:"gridHeight"`
	Warning       string                  `json:"warning,omitempty"`
}

// GenerateResponse is the POST /api/crosswords response body (spec.md §6).
type GenerateResponse struct {
	Success     bool        `json:"success"`
	CrosswordID string      `json:"crosswordId,omitempty"`
	Puzzle      *PuzzleView `json:"puzzle,omitempty"`
	Payload     string      `json:"payload,omitempty"`
	Warning     string      `json:"warning,omitempty"`
	Error       string      `json:"error,omitempty"`
}
