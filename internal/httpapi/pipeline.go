package httpapi

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bodul/crossword/internal/aiclue"
	"github.com/bodul/crossword/internal/placement"
	"github.com/bodul/crossword/internal/polyomino"
	"github.com/bodul/crossword/internal/progress"
	"github.com/bodul/crossword/internal/puzzle"
	"github.com/bodul/crossword/internal/serializer"
	"github.com/bodul/crossword/internal/store"
	"github.com/bodul/crossword/internal/suitability"
)

const (
	defaultNumItems  = 10
	minNumItems      = 3
	maxNumItems      = 50
	defaultGridSize  = 18
	minGridSize      = 5
	maxGridSize      = 50
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalize applies request defaults and clamps from spec.md §6.
func normalize(req GenerateRequest) GenerateRequest {
	if req.Mode == "" {
		req.Mode = "ai"
	}
	if req.NumItems == 0 {
		req.NumItems = defaultNumItems
	}
	req.NumItems = clampInt(req.NumItems, minNumItems, maxNumItems)

	if req.GridSizeX == 0 {
		req.GridSizeX = defaultGridSize
	}
	if req.GridSizeY == 0 {
		req.GridSizeY = defaultGridSize
	}
	req.GridSizeX = clampInt(req.GridSizeX, minGridSize, maxGridSize)
	req.GridSizeY = clampInt(req.GridSizeY, minGridSize, maxGridSize)

	if req.RemoveUnplacedWords == nil {
		t := true
		req.RemoveUnplacedWords = &t
	}
	return req
}

// validateRequest enforces the bad-request rules from spec.md §7.
func validateRequest(req GenerateRequest) error {
	if strings.TrimSpace(req.SessionID) == "" {
		return fmt.Errorf("sessionId is required")
	}
	if len(req.ContentLanguage) < 2 {
		return fmt.Errorf("contentLanguage must be a BCP-47 tag of length >= 2")
	}
	switch req.Mode {
	case "ai":
		if req.InputType == "" || req.InputValue == "" {
			return fmt.Errorf("inputType and inputValue are required when mode is ai")
		}
	case "manual_basic", "manual_advanced":
		if len(req.Words) == 0 {
			return fmt.Errorf("words is required when mode is %s", req.Mode)
		}
	default:
		return fmt.Errorf("unknown mode %q", req.Mode)
	}
	return nil
}

// generate runs the full pipeline for one request: gather clues, filter,
// place, optionally partition, serialize, and persist. Every stage
// completion is broadcast to s.progress under the crossword id. That id
// is created inside this call and first returned in the response, so a
// GET .../events subscriber receives these events only if it is already
// listening on that id.
func (s *Server) generate(ctx context.Context, rawReq GenerateRequest) GenerateResponse {
	req := normalize(rawReq)
	if err := validateRequest(req); err != nil {
		return GenerateResponse{Success: false, Error: err.Error()}
	}

	id := store.NewID()
	mode := req.Mode

	clues, geminiRaw, theme, err := s.gatherClues(ctx, req)
	if err != nil {
		s.persistBestEffortSummary(id, mode, 0, 0, 0, 0, err.Error())
		return GenerateResponse{Success: false, Error: err.Error()}
	}
	s.persistCandidates(id, clues)
	s.progress.Broadcast(id, progress.StageTokenized)

	removeUnplaced := *req.RemoveUnplacedWords

	var result puzzle.Result
	var warning string

	if mode == "manual_advanced" {
		entries, err := manualEntries(req.Words, req.ContentLanguage)
		if err != nil {
			s.persistBestEffortSummary(id, mode, 0, 0, 0, len(clues), err.Error())
			return GenerateResponse{Success: false, Error: err.Error()}
		}
		placed, manualErrs := placement.PlaceManual(entries, req.GridSizeX, req.GridSizeY)
		if len(manualErrs) > 0 {
			msg := joinManualErrors(manualErrs)
			s.persistBestEffortSummary(id, mode, 0, 0, 0, len(clues), msg)
			return GenerateResponse{Success: false, Error: msg}
		}
		result = placed
		s.progress.Broadcast(id, progress.StageFiltered)
	} else {
		filtered := suitability.Filter(clues, req.GridSizeX, req.GridSizeY)
		s.persistFiltered(id, filtered)
		s.progress.Broadcast(id, progress.StageFiltered)

		if len(filtered.Kept) == 0 {
			s.persistBestEffortSummary(id, mode, 0, 0, len(filtered.Removed), len(clues), "No words passed filter.")
			return GenerateResponse{Success: false, Error: "No words passed filter."}
		}

		result = placement.Generate(placement.Params{
			Clues:  filtered.Kept,
			Width:  req.GridSizeX,
			Height: req.GridSizeY,
			Seed:   req.Seed,
		})
		warning = result.Warning
	}

	s.progress.Broadcast(id, progress.StagePlaced)
	s.persistPlacements(id, result)

	if len(result.Placements) > 0 {
		pr := polyomino.Generate(result.Placements, result.Width, result.Height, theme, polyomino.DefaultConfig())
		s.persistPolyomino(id, pr)
	}
	s.progress.Broadcast(id, progress.StagePartitioned)

	out := serializer.Serialize(result, removeUnplaced)
	s.persistGrid(id, out)

	s.persistMeta(id, store.Meta{
		ID:             id,
		Theme:          theme,
		Language:       req.ContentLanguage,
		GridSize:       fmt.Sprintf("%dx%d", req.GridSizeX, req.GridSizeY),
		RequestedCount: len(clues),
		CreatedAt:      time.Now(),
		UserID:         req.SessionID,
		Mode:           mode,
	})
	if geminiRaw != nil {
		_ = s.store.WriteGeminiRaw(id, *geminiRaw)
	}
	s.persistSummary(id, mode, result, len(clues), warning)

	return GenerateResponse{
		Success:     true,
		CrosswordID: id,
		Payload:     out.Payload,
		Warning:     warning,
		Puzzle: &PuzzleView{
			Grid:          out.Grid,
			Placements:    out.Placed,
			UnplacedWords: out.Unplaced,
			GridWidth:     result.Width,
			GridHeight:    result.Height,
			Warning:       warning,
		},
	}
}

// gatherClues builds the candidate clue list for ai or manual modes and
// returns the raw AI interaction (nil for manual modes) plus a theme
// string derived from the request.
func (s *Server) gatherClues(ctx context.Context, req GenerateRequest) ([]puzzle.ClueItem, *store.GeminiRaw, string, error) {
	if req.Mode != "ai" {
		clues := make([]puzzle.ClueItem, 0, len(req.Words))
		for _, w := range req.Words {
			item, err := puzzle.NewClueItem(w.Word, w.Clue, req.ContentLanguage)
			if err != nil {
				continue
			}
			clues = append(clues, item)
		}
		theme := "custom"
		if len(req.Words) > 0 {
			theme = req.Words[0].Word
		}
		return clues, nil, theme, nil
	}

	if os.Getenv("AI_API_KEY") == "" {
		return nil, nil, "", fmt.Errorf("AI mode is not configured: AI_API_KEY is not set")
	}
	if s.ai == nil {
		return nil, nil, "", fmt.Errorf("AI client is not configured")
	}

	candidates, raw, err := s.ai.Generate(ctx, aiclue.Request{
		InputType:        aiclue.InputType(req.InputType),
		InputValue:       req.InputValue,
		NumItems:         req.NumItems,
		UserInstructions: req.UserInstructions,
	})
	if err != nil {
		return nil, nil, "", fmt.Errorf("generator produced no parseable clues: %w", err)
	}

	clues := make([]puzzle.ClueItem, 0, len(candidates))
	for _, c := range candidates {
		item, err := puzzle.NewClueItem(c.Answer, c.Clue, req.ContentLanguage)
		if err != nil {
			continue
		}
		clues = append(clues, item)
	}
	if len(clues) == 0 {
		return nil, nil, "", fmt.Errorf("generator produced no parseable clues")
	}

	geminiRaw := &store.GeminiRaw{
		Prompt:      raw.Prompt,
		Model:       raw.Model,
		RawResponse: raw.Response,
		Timestamp:   time.Now(),
	}
	return clues, geminiRaw, req.InputValue, nil
}

func manualEntries(words []WordInput, locale string) ([]placement.ManualEntry, error) {
	entries := make([]placement.ManualEntry, len(words))
	for i, w := range words {
		if w.Row == nil || w.Col == nil || w.Direction == nil {
			return nil, fmt.Errorf("word %q: row, col, and direction are required in manual_advanced mode", w.Word)
		}
		dir, err := parseDirection(*w.Direction)
		if err != nil {
			return nil, fmt.Errorf("word %q: %w", w.Word, err)
		}
		entries[i] = placement.ManualEntry{
			Answer:    w.Word,
			Clue:      w.Clue,
			Row:       *w.Row,
			Col:       *w.Col,
			Direction: dir,
			Locale:    locale,
		}
	}
	return entries, nil
}

func parseDirection(s string) (puzzle.Direction, error) {
	switch strings.ToLower(s) {
	case "across":
		return puzzle.Across, nil
	case "down":
		return puzzle.Down, nil
	default:
		return 0, fmt.Errorf("invalid direction %q", s)
	}
}

func joinManualErrors(errs []placement.ManualError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
