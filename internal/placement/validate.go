package placement

import (
	"github.com/bodul/crossword/internal/grapheme"
	"github.com/bodul/crossword/internal/puzzle"
)

// validate reports whether placement p may be committed to the grid,
// enforcing every rule in spec.md §4.3.4.
func (e *engine) validate(p puzzle.Placement) bool {
	cells := p.Cells()

	for _, xy := range cells {
		if !e.grid.InBounds(xy[0], xy[1]) {
			return false
		}
	}

	if !e.startCellAllowed(p) {
		return false
	}

	for i, xy := range cells {
		x, y := xy[0], xy[1]
		cell := e.grid.At(x, y)
		if cell.Occupied() && !grapheme.CompareGraphemes(cell.Grapheme, p.Clue.Graphemes[i]) {
			return false
		}
	}

	if !e.strictSideAdjacency(p, cells) {
		return false
	}

	if !e.wordEndsClear(p) {
		return false
	}

	return true
}

// startCellAllowed enforces the start-cell collision rule: two placements
// may share a start cell only if they run perpendicular and agree on the
// first grapheme.
func (e *engine) startCellAllowed(p puzzle.Placement) bool {
	firstGrapheme := p.Clue.Graphemes[0]
	for _, rec := range e.startRecords {
		if rec.X != p.StartX || rec.Y != p.StartY {
			continue
		}
		if rec.Direction == p.Direction {
			return false
		}
		if !grapheme.CompareGraphemes(rec.FirstGrapheme, firstGrapheme) {
			return false
		}
	}
	return true
}

// strictSideAdjacency requires that every cell NOT already occupied by a
// prior word (i.e. not an intersection) has empty perpendicular
// neighbors, so parallel words never accidentally touch.
func (e *engine) strictSideAdjacency(p puzzle.Placement, cells [][2]int) bool {
	for _, xy := range cells {
		x, y := xy[0], xy[1]
		if e.grid.At(x, y).Occupied() {
			continue // intersection cell: adjacency already settled by the existing word
		}

		var n1x, n1y, n2x, n2y int
		if p.Direction == puzzle.Across {
			n1x, n1y = x, y-1
			n2x, n2y = x, y+1
		} else {
			n1x, n1y = x-1, y
			n2x, n2y = x+1, y
		}

		if e.grid.InBounds(n1x, n1y) && e.grid.At(n1x, n1y).Occupied() {
			return false
		}
		if e.grid.InBounds(n2x, n2y) && e.grid.At(n2x, n2y).Occupied() {
			return false
		}
	}
	return true
}

// wordEndsClear requires the cells immediately before the start and
// after the end, along the word's axis, to be empty (or off-grid).
func (e *engine) wordEndsClear(p puzzle.Placement) bool {
	cells := p.Cells()
	first := cells[0]
	last := cells[len(cells)-1]

	var beforeX, beforeY, afterX, afterY int
	if p.Direction == puzzle.Across {
		beforeX, beforeY = first[0]-1, first[1]
		afterX, afterY = last[0]+1, last[1]
	} else {
		beforeX, beforeY = first[0], first[1]-1
		afterX, afterY = last[0], last[1]+1
	}

	if e.grid.InBounds(beforeX, beforeY) && e.grid.At(beforeX, beforeY).Occupied() {
		return false
	}
	if e.grid.InBounds(afterX, afterY) && e.grid.At(afterX, afterY).Occupied() {
		return false
	}
	return true
}
