package placement

import "github.com/bodul/crossword/internal/puzzle"

// crop computes the tight bounding box over every placed word's cells and
// re-derives a new grid from the shifted placements (spec.md §4.3.7). When
// nothing was placed, the original dimensions are kept and an empty grid
// is returned (spec.md §9 open question resolution).
func crop(a attemptResult, width, height int) puzzle.Result {
	if len(a.placements) == 0 {
		return puzzle.Result{
			Grid:     puzzle.NewGrid(width, height),
			Unplaced: a.unplaced,
			Width:    width,
			Height:   height,
		}
	}

	minX, minY := a.width, a.height
	maxX, maxY := 0, 0
	for _, p := range a.placements {
		for _, xy := range p.Cells() {
			if xy[0] < minX {
				minX = xy[0]
			}
			if xy[0] > maxX {
				maxX = xy[0]
			}
			if xy[1] < minY {
				minY = xy[1]
			}
			if xy[1] > maxY {
				maxY = xy[1]
			}
		}
	}

	newWidth := maxX - minX + 1
	newHeight := maxY - minY + 1
	grid := puzzle.NewGrid(newWidth, newHeight)

	shifted := make([]puzzle.Placement, len(a.placements))
	for i, p := range a.placements {
		p.StartX -= minX
		p.StartY -= minY
		shifted[i] = p

		for j, xy := range p.Cells() {
			x, y := xy[0], xy[1]
			cell := grid.Cells[y][x]
			if !cell.Occupied() {
				cell.Grapheme = p.Clue.Graphemes[j]
			}
			cell.WordIDs = append(cell.WordIDs, p.WordID)
			grid.Cells[y][x] = cell
		}
	}

	return puzzle.Result{
		Grid:       grid,
		Placements: shifted,
		Unplaced:   a.unplaced,
		Width:      newWidth,
		Height:     newHeight,
	}
}
