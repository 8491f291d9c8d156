package polyomino

import (
	"sort"

	"github.com/bodul/crossword/internal/puzzle"
	"github.com/katalvlaran/lvlath/gridgraph"
)

// buildRegistry walks placements in placement (word-id) order and
// assigns each filled cell a block id on first sighting, incrementing a
// word-count on every subsequent sighting (an intersection cell has
// word_count >= 2).
func buildRegistry(placements []puzzle.Placement) map[cellKey]*cellInfo {
	registry := make(map[cellKey]*cellInfo)
	nextBlockID := 0

	for _, p := range placements {
		for i, xy := range p.Cells() {
			k := cellKey{X: xy[0], Y: xy[1]}
			if info, ok := registry[k]; ok {
				info.WordCount++
				continue
			}
			registry[k] = &cellInfo{
				X:         xy[0],
				Y:         xy[1],
				Letter:    p.Clue.Graphemes[i],
				BlockID:   nextBlockID,
				WordCount: 1,
			}
			nextBlockID++
		}
	}
	return registry
}

// seedOrder sorts filled cells by (word_count DESC, y ASC, x ASC), the
// order partition seeding and cross-pentomino scanning both use.
func seedOrder(registry map[cellKey]*cellInfo) []cellKey {
	keys := make([]cellKey, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := registry[keys[i]], registry[keys[j]]
		if a.WordCount != b.WordCount {
			return a.WordCount > b.WordCount
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return keys
}

// connectivityReport runs lvlath's grid connected-components walk over
// the filled/unfilled mask as a diagnostic check: a crossword grid
// produced by the placement engine is always one connected mass of
// letters, but a caller-authored manual_advanced layout is not
// guaranteed to be. Generate runs it after the partition is built and
// adds an advisory validation issue when it finds more than one region.
func connectivityReport(registry map[cellKey]*cellInfo, width, height int) (components int, err error) {
	if len(registry) == 0 {
		return 0, nil
	}

	values := make([][]int, height)
	for y := range values {
		values[y] = make([]int, width)
	}
	for k := range registry {
		values[k.Y][k.X] = 1
	}

	gg, err := gridgraph.NewGridGraph(values, gridgraph.DefaultGridOptions())
	if err != nil {
		return 0, err
	}
	return len(gg.ConnectedComponents()), nil
}

func neighborOffset(dir int) (int, int) {
	switch dir {
	case dirUp:
		return 0, -1
	case dirRight:
		return 1, 0
	case dirDown:
		return 0, 1
	default: // dirLeft
		return -1, 0
	}
}
