package placement

import (
	"fmt"

	"github.com/bodul/crossword/internal/grapheme"
	"github.com/bodul/crossword/internal/puzzle"
)

// ManualEntry is one caller-authored placement for PlaceManual.
type ManualEntry struct {
	Answer    string
	Clue      string
	Row       int
	Col       int
	Direction puzzle.Direction
	Locale    string
}

// ManualError names a single invalid entry by its index and word.
type ManualError struct {
	Index int
	Word  string
	Err   error
}

func (e ManualError) Error() string {
	return fmt.Sprintf("%s: %v", e.Word, e.Err)
}

// PlaceManual validates and commits a fully-specified layout supplied by
// the caller (spec.md §4.3.8). Bounds and per-cell grapheme agreement are
// enforced; strict side-adjacency and word-ends clearance are not, since
// the caller owns the layout. It fails fast on the first invalid entry.
func PlaceManual(entries []ManualEntry, width, height int) (puzzle.Result, []ManualError) {
	grid := puzzle.NewGrid(width, height)
	var placements []puzzle.Placement
	var errs []ManualError

	for i, entry := range entries {
		clue, err := puzzle.NewClueItem(entry.Answer, entry.Clue, entry.Locale)
		if err != nil {
			errs = append(errs, ManualError{Index: i, Word: entry.Answer, Err: err})
			return puzzle.Result{}, errs
		}

		p := puzzle.Placement{
			WordID:    i + 1,
			Clue:      clue,
			StartX:    entry.Col,
			StartY:    entry.Row,
			Direction: entry.Direction,
			Placed:    true,
		}

		if err := validateManual(grid, p); err != nil {
			errs = append(errs, ManualError{Index: i, Word: entry.Answer, Err: err})
			return puzzle.Result{}, errs
		}

		for j, xy := range p.Cells() {
			x, y := xy[0], xy[1]
			cell := grid.Cells[y][x]
			if !cell.Occupied() {
				cell.Grapheme = clue.Graphemes[j]
			}
			cell.WordIDs = append(cell.WordIDs, p.WordID)
			grid.Cells[y][x] = cell
		}
		placements = append(placements, p)
	}

	requested := len(entries)
	return puzzle.Result{
		Grid:       grid,
		Placements: placements,
		Width:      width,
		Height:     height,
		Stats: puzzle.Stats{
			Requested: requested,
			Placed:    requested,
			Unplaced:  0,
			FillRatio: 1,
		},
	}, nil
}

func validateManual(grid *puzzle.Grid, p puzzle.Placement) error {
	cells := p.Cells()
	for _, xy := range cells {
		if !grid.InBounds(xy[0], xy[1]) {
			return fmt.Errorf("placement out of bounds at (%d,%d)", xy[0], xy[1])
		}
	}
	for i, xy := range cells {
		x, y := xy[0], xy[1]
		cell := grid.At(x, y)
		if cell.Occupied() && !grapheme.CompareGraphemes(cell.Grapheme, p.Clue.Graphemes[i]) {
			return fmt.Errorf("grapheme mismatch at (%d,%d): existing %q, new %q", x, y, cell.Grapheme, p.Clue.Graphemes[i])
		}
	}
	return nil
}
