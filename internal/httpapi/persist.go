package httpapi

import (
	"log"

	"github.com/bodul/crossword/internal/polyomino"
	"github.com/bodul/crossword/internal/puzzle"
	"github.com/bodul/crossword/internal/serializer"
	"github.com/bodul/crossword/internal/store"
	"github.com/bodul/crossword/internal/suitability"
)

// Every persist* helper logs and swallows its own error: persistence
// failures are non-fatal for the response shape per spec.md §7, and a
// best-effort summary write is still attempted on generation failure.

func (s *Server) persistCandidates(id string, clues []puzzle.ClueItem) {
	records := make([]store.CandidateRecord, len(clues))
	for i, c := range clues {
		records[i] = store.CandidateRecord{Answer: c.Answer, Graphemes: c.Graphemes, Clue: c.Clue}
	}
	if err := s.store.WriteCandidates(id, records); err != nil {
		log.Printf("httpapi: persist candidates for %s: %v", id, err)
	}
}

func (s *Server) persistFiltered(id string, filtered suitability.Result) {
	kept := make([]string, len(filtered.Kept))
	for i, c := range filtered.Kept {
		kept[i] = c.Answer
	}
	removed := make([]store.RemovedRecord, len(filtered.Removed))
	for i, r := range filtered.Removed {
		removed[i] = store.RemovedRecord{Answer: r.Clue.Answer, Reason: r.Reason}
	}
	if err := s.store.WriteFiltered(id, store.Filtered{Kept: kept, Removed: removed}); err != nil {
		log.Printf("httpapi: persist filtered for %s: %v", id, err)
	}
}

func (s *Server) persistPlacements(id string, result puzzle.Result) {
	placed := make([]store.PlacedRecord, len(result.Placements))
	for i, p := range result.Placements {
		placed[i] = store.PlacedRecord{
			Answer:    p.Clue.Answer,
			Row:       p.StartY,
			Col:       p.StartX,
			Direction: p.Direction.String(),
		}
	}
	unplaced := make([]store.UnplacedRecord, len(result.Unplaced))
	for i, c := range result.Unplaced {
		unplaced[i] = store.UnplacedRecord{Answer: c.Answer, Reason: "not placed during generation"}
	}
	if err := s.store.WritePlacements(id, store.Placements{Placed: placed, Unplaced: unplaced}); err != nil {
		log.Printf("httpapi: persist placements for %s: %v", id, err)
	}
}

func (s *Server) persistGrid(id string, out serializer.Output) {
	cells := make([][]store.GridCellRecord, len(out.Grid))
	for y, row := range out.Grid {
		cells[y] = make([]store.GridCellRecord, len(row))
		for x, g := range row {
			cells[y][x] = store.GridCellRecord{G: g}
		}
	}
	width := 0
	if len(out.Grid) > 0 {
		width = len(out.Grid[0])
	}
	grid := store.GridFile{Width: width, Height: len(out.Grid), Cells: cells}
	if err := s.store.WriteGrid(id, grid); err != nil {
		log.Printf("httpapi: persist grid for %s: %v", id, err)
	}
}

func (s *Server) persistPolyomino(id string, pr polyomino.Result) {
	pieces := make([]store.PieceRecord, len(pr.Pieces))
	for i, p := range pr.Pieces {
		cells := make([]store.PieceCellRecord, len(p.Cells))
		for j, c := range p.Cells {
			cells[j] = store.PieceCellRecord{
				RelX: c.RelX, RelY: c.RelY,
				Letter:  c.Letter,
				BlockID: c.GlobalBlockID,
				Node:    c.Neighbors,
			}
		}
		pieces[i] = store.PieceRecord{ID: p.ID, CorrectX: p.AnchorX, CorrectY: p.AnchorY, Cells: cells}
	}
	v := store.PolyominoFile{Theme: pr.Theme, GridWidth: pr.GridWidth, GridHeight: pr.GridHeight, Pieces: pieces}
	if err := s.store.WritePolyomino(id, v); err != nil {
		log.Printf("httpapi: persist polyomino for %s: %v", id, err)
	}
}

func (s *Server) persistMeta(id string, meta store.Meta) {
	if err := s.store.WriteMeta(id, meta); err != nil {
		log.Printf("httpapi: persist meta for %s: %v", id, err)
	}
}

func (s *Server) persistSummary(id, mode string, result puzzle.Result, requested int, warning string) {
	summary := store.Summary{
		Mode:           mode,
		PlacedCount:    result.Stats.Placed,
		UnplacedCount:  result.Stats.Unplaced,
		FilteredCount:  requested - result.Stats.Placed - result.Stats.Unplaced,
		RequestedCount: requested,
		FillRatio:      result.Stats.FillRatio,
		Warning:        warning,
	}
	if err := s.store.WriteSummary(id, summary); err != nil {
		log.Printf("httpapi: persist summary for %s: %v", id, err)
	}
}

// persistBestEffortSummary writes a summary for a request whose
// generation failed after its crossword id was assigned, carrying the
// counts known at the point of failure and the failure text as warning.
func (s *Server) persistBestEffortSummary(id, mode string, placed, unplaced, filteredOut, requested int, warning string) {
	summary := store.Summary{
		Mode:           mode,
		PlacedCount:    placed,
		UnplacedCount:  unplaced,
		FilteredCount:  filteredOut,
		RequestedCount: requested,
		Warning:        warning,
	}
	if err := s.store.WriteSummary(id, summary); err != nil {
		log.Printf("httpapi: persist best-effort summary for %s: %v", id, err)
	}
}
