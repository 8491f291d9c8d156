// Package puzzle holds the data model shared by the placement engine,
// polyomino partitioner, and serializer: clues, grid cells, placements,
// and the final result returned from one generation call.
//
// Every value here is created during a single synchronous generation call
// and is never mutated after that call returns — there is no shared
// mutable state across requests.
package puzzle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bodul/crossword/internal/grapheme"
)

// Direction is the axis a word is placed along.
type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "across"
}

var (
	// ErrAnswerLength is returned when an answer's grapheme count falls
	// outside [2,20].
	ErrAnswerLength = errors.New("puzzle: answer must have between 2 and 20 graphemes")
	// ErrAnswerEmpty is returned when an answer normalizes to nothing.
	ErrAnswerEmpty = errors.New("puzzle: answer must not be empty")
)

// ClueItem is a normalized answer, its clue text, and the ordered
// graphemes making up the answer. Invariant: join(Graphemes) == Answer.
type ClueItem struct {
	Answer    string
	Clue      string
	Graphemes []string
}

// NewClueItem cleans and NFC-normalizes answer, segments it into graphemes
// per locale, and validates the length and brace invariants from spec.md
// §3 and §9.
func NewClueItem(answer, clue, locale string) (ClueItem, error) {
	cleaned := grapheme.CleanAnswerText(answer)
	if cleaned == "" {
		return ClueItem{}, ErrAnswerEmpty
	}

	graphemes := grapheme.ToGraphemes(cleaned, locale)
	if len(graphemes) < 2 || len(graphemes) > 20 {
		return ClueItem{}, fmt.Errorf("%w: got %d", ErrAnswerLength, len(graphemes))
	}
	if err := grapheme.ValidateGraphemes(graphemes); err != nil {
		return ClueItem{}, err
	}

	joined := strings.Join(graphemes, "")
	if joined != cleaned {
		return ClueItem{}, fmt.Errorf("puzzle: graphemes %q do not reconstruct answer %q", joined, cleaned)
	}

	return ClueItem{
		Answer:    cleaned,
		Clue:      grapheme.NFC(clue),
		Graphemes: graphemes,
	}, nil
}

// Len returns the number of graphemes in the answer.
func (c ClueItem) Len() int {
	return len(c.Graphemes)
}

// Cell is a single grid cell. An empty cell has no Grapheme and no
// WordIDs; an occupied cell has exactly one Grapheme and one or more
// WordIDs (more than one only at an intersection, where every
// contributing placement must agree on the grapheme).
type Cell struct {
	Grapheme string
	WordIDs  []int
}

// Occupied reports whether the cell holds a grapheme.
func (c Cell) Occupied() bool {
	return c.Grapheme != ""
}

// Grid is a rectangular array of cells addressed (x=col, y=row), 0-based.
type Grid struct {
	Width, Height int
	Cells         [][]Cell // Cells[y][x]
}

// NewGrid allocates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	return &Grid{Width: width, Height: height, Cells: cells}
}

// At returns the cell at (x,y). Callers must ensure the coordinates are
// in bounds.
func (g *Grid) At(x, y int) Cell {
	return g.Cells[y][x]
}

// InBounds reports whether (x,y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Placement describes one word's position in the grid.
type Placement struct {
	WordID    int
	Clue      ClueItem
	StartX    int
	StartY    int
	Direction Direction
	Placed    bool
}

// Cells returns the (x,y) coordinates this placement covers, in grapheme
// order.
func (p Placement) Cells() [][2]int {
	cells := make([][2]int, p.Clue.Len())
	for i := range cells {
		if p.Direction == Across {
			cells[i] = [2]int{p.StartX + i, p.StartY}
		} else {
			cells[i] = [2]int{p.StartX, p.StartY + i}
		}
	}
	return cells
}

// StartRecord tracks one successful placement's start cell, used to
// detect start-cell collisions during the search (spec.md §4.3.4).
type StartRecord struct {
	X, Y          int
	Direction     Direction
	FirstGrapheme string
}

// Stats summarizes one generation attempt.
type Stats struct {
	Requested int
	Placed    int
	Unplaced  int
	FillRatio float64
}

// Result is the outcome of one generation call: the cropped grid, placed
// words first, then the unplaced clue list, final dimensions, and an
// optional warning.
type Result struct {
	Grid       *Grid
	Placements []Placement
	Unplaced   []ClueItem
	Width      int
	Height     int
	Warning    string
	Stats      Stats
}
