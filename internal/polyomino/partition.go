package polyomino

import (
	"fmt"
	"sort"

	"github.com/bodul/crossword/internal/puzzle"
)

// Generate decomposes the filled cells of placements into connected
// polyomino pieces, per spec.md §4.4.
func Generate(placements []puzzle.Placement, width, height int, theme string, config Config) Result {
	registry := buildRegistry(placements)
	order := seedOrder(registry)

	assigned := make(map[cellKey]bool, len(registry))
	var groups [][]cellKey
	var pentominoGroupIdx = -1

	if config.AllowSingleCrossPentomino {
		if idx, ok := tryCrossPentomino(registry, order, assigned); ok {
			groups = append(groups, idx)
			pentominoGroupIdx = 0
		}
	}

	groups = append(groups, growPieces(registry, order, assigned, config.MaxPieceSize)...)

	groups, pentominoGroupIdx = mergeUndersized(groups, registry, config, pentominoGroupIdx)

	pieces := buildPieces(groups, registry)
	validation := validate(pieces, config, pentominoGroupIdx)

	if components, err := connectivityReport(registry, width, height); err == nil && components > 1 {
		validation.Issues = append(validation.Issues, fmt.Sprintf("filled cells form %d disconnected regions", components))
	}

	return Result{
		Theme:      theme,
		GridWidth:  width,
		GridHeight: height,
		Pieces:     pieces,
		Validation: validation,
	}
}

// tryCrossPentomino scans intersection cells (word_count >= 2) in
// seed order looking for the first whose four neighbors are all filled
// and unassigned; that cell and its neighbors become a fixed 5-cell plus
// piece.
func tryCrossPentomino(registry map[cellKey]*cellInfo, order []cellKey, assigned map[cellKey]bool) ([]cellKey, bool) {
	for _, center := range order {
		if registry[center].WordCount < 2 {
			continue
		}
		neighbors := make([]cellKey, 4)
		ok := true
		for dir := 0; dir < 4; dir++ {
			dx, dy := neighborOffset(dir)
			n := cellKey{X: center.X + dx, Y: center.Y + dy}
			if _, filled := registry[n]; !filled || assigned[n] {
				ok = false
				break
			}
			neighbors[dir] = n
		}
		if !ok {
			continue
		}

		group := append([]cellKey{center}, neighbors...)
		for _, c := range group {
			assigned[c] = true
		}
		return group, true
	}
	return nil, false
}

// growPieces seeds a new piece at the first unassigned cell in seed
// order and grows it by BFS, up to maxSize, until every filled cell is
// assigned.
func growPieces(registry map[cellKey]*cellInfo, order []cellKey, assigned map[cellKey]bool, maxSize int) [][]cellKey {
	var groups [][]cellKey

	for _, seed := range order {
		if assigned[seed] {
			continue
		}

		piece := []cellKey{seed}
		assigned[seed] = true
		queue := []cellKey{seed}

		for len(queue) > 0 && len(piece) < maxSize {
			cur := queue[0]
			queue = queue[1:]

			for dir := 0; dir < 4 && len(piece) < maxSize; dir++ {
				dx, dy := neighborOffset(dir)
				n := cellKey{X: cur.X + dx, Y: cur.Y + dy}
				if _, filled := registry[n]; !filled || assigned[n] {
					continue
				}
				assigned[n] = true
				piece = append(piece, n)
				queue = append(queue, n)
			}
		}
		groups = append(groups, piece)
	}
	return groups
}

// buildPieces emits each final group as a Piece, anchored topmost-then-
// leftmost, with cells sorted (rel_y asc, rel_x asc) and neighbor block
// ids resolved against the full registry.
func buildPieces(groups [][]cellKey, registry map[cellKey]*cellInfo) []Piece {
	type anchored struct {
		group  []cellKey
		anchor cellKey
	}
	anchoredGroups := make([]anchored, len(groups))
	for i, g := range groups {
		anchoredGroups[i] = anchored{group: g, anchor: topLeftAnchor(g)}
	}
	sort.Slice(anchoredGroups, func(i, j int) bool {
		a, b := anchoredGroups[i].anchor, anchoredGroups[j].anchor
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	pieces := make([]Piece, len(anchoredGroups))
	for i, ag := range anchoredGroups {
		anchor := ag.anchor
		cells := make([]PieceCell, len(ag.group))
		for j, c := range ag.group {
			info := registry[c]
			var neighbors [4]int
			for dir := 0; dir < 4; dir++ {
				dx, dy := neighborOffset(dir)
				n := cellKey{X: c.X + dx, Y: c.Y + dy}
				if ninfo, ok := registry[n]; ok {
					neighbors[dir] = ninfo.BlockID
				} else {
					neighbors[dir] = noNeighbor
				}
			}
			cells[j] = PieceCell{
				RelX:          c.X - anchor.X,
				RelY:          c.Y - anchor.Y,
				Letter:        info.Letter,
				GlobalBlockID: info.BlockID,
				Neighbors:     neighbors,
			}
		}
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].RelY != cells[j].RelY {
				return cells[i].RelY < cells[j].RelY
			}
			return cells[i].RelX < cells[j].RelX
		})

		pieces[i] = Piece{
			ID:      fmt.Sprintf("piece_%d", i),
			AnchorX: anchor.X,
			AnchorY: anchor.Y,
			Cells:   cells,
		}
	}
	return pieces
}

func topLeftAnchor(group []cellKey) cellKey {
	anchor := group[0]
	for _, c := range group[1:] {
		if c.Y < anchor.Y || (c.Y == anchor.Y && c.X < anchor.X) {
			anchor = c
		}
	}
	return anchor
}
