package polyomino

import "sort"

const maxMergePasses = 10

// mergeUndersized repeatedly absorbs pieces smaller than
// config.MinPieceSize into a neighboring piece, up to maxMergePasses,
// using a union-find-style redirect (spec.md §4.4). The cross-pentomino
// piece, if any, is never a source or target: its shape is fixed.
func mergeUndersized(groups [][]cellKey, registry map[cellKey]*cellInfo, config Config, pentominoIdx int) ([][]cellKey, int) {
	n := len(groups)
	if n == 0 {
		return groups, pentominoIdx
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(src, dst int) {
		parent[find(src)] = find(dst)
	}

	maxCombined := config.MaxPieceSize
	if maxCombined < 5 {
		maxCombined = 5
	}

	for pass := 0; pass < maxMergePasses; pass++ {
		rootCells := rootsToCells(groups, find)
		undersized := undersizedRoots(rootCells, config.MinPieceSize, pentominoIdx, find)
		if len(undersized) == 0 {
			break
		}

		changed := false
		for _, r := range undersized {
			r = find(r)
			if len(rootCells[r]) >= config.MinPieceSize {
				continue
			}

			target, ok := bestMergeTarget(r, rootCells, maxCombined, pentominoIdx, find)
			if !ok {
				continue
			}

			union(r, target)
			rootCells[target] = append(rootCells[target], rootCells[r]...)
			delete(rootCells, r)
			changed = true
		}

		if !changed {
			break
		}
	}

	return rebuildGroups(groups, find, pentominoIdx)
}

func rootsToCells(groups [][]cellKey, find func(int) int) map[int][]cellKey {
	out := make(map[int][]cellKey)
	for i, g := range groups {
		r := find(i)
		out[r] = append(out[r], g...)
	}
	return out
}

// undersizedRoots returns roots below MinPieceSize, excluding the
// pentomino root, sorted smallest-first then by top-left anchor for
// determinism.
func undersizedRoots(rootCells map[int][]cellKey, minSize int, pentominoIdx int, find func(int) int) []int {
	pentominoRoot := -1
	if pentominoIdx >= 0 {
		pentominoRoot = find(pentominoIdx)
	}

	var roots []int
	for r, cells := range rootCells {
		if r == pentominoRoot {
			continue
		}
		if len(cells) < minSize {
			roots = append(roots, r)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		a, b := rootCells[roots[i]], rootCells[roots[j]]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		aa, ba := topLeftAnchor(a), topLeftAnchor(b)
		if aa.Y != ba.Y {
			return aa.Y < ba.Y
		}
		return aa.X < ba.X
	})
	return roots
}

// bestMergeTarget finds the neighboring root whose combined size with r
// stays within maxCombined, preferring the smallest current neighbor.
func bestMergeTarget(r int, rootCells map[int][]cellKey, maxCombined int, pentominoIdx int, find func(int) int) (int, bool) {
	pentominoRoot := -1
	if pentominoIdx >= 0 {
		pentominoRoot = find(pentominoIdx)
	}

	mine := rootCells[r]
	mySet := make(map[cellKey]bool, len(mine))
	for _, c := range mine {
		mySet[c] = true
	}

	best := -1
	for r2, cells := range rootCells {
		if r2 == r || r2 == pentominoRoot {
			continue
		}
		if len(mine)+len(cells) > maxCombined {
			continue
		}
		if !anyAdjacent(mySet, cells) {
			continue
		}
		if best == -1 || len(cells) < len(rootCells[best]) {
			best = r2
		} else if len(cells) == len(rootCells[best]) {
			a, b := topLeftAnchor(cells), topLeftAnchor(rootCells[best])
			if a.Y < b.Y || (a.Y == b.Y && a.X < b.X) {
				best = r2
			}
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func anyAdjacent(set map[cellKey]bool, cells []cellKey) bool {
	for _, c := range cells {
		for dir := 0; dir < 4; dir++ {
			dx, dy := neighborOffset(dir)
			if set[cellKey{X: c.X + dx, Y: c.Y + dy}] {
				return true
			}
		}
	}
	return false
}

// rebuildGroups collapses groups by final DSU root into the merged final
// piece list, preserving the index of the cross-pentomino piece (if any)
// under its new position.
func rebuildGroups(groups [][]cellKey, find func(int) int, pentominoIdx int) ([][]cellKey, int) {
	rootCells := rootsToCells(groups, find)

	roots := make([]int, 0, len(rootCells))
	for r := range rootCells {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool {
		a, b := topLeftAnchor(rootCells[roots[i]]), topLeftAnchor(rootCells[roots[j]])
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	pentominoRoot := -1
	if pentominoIdx >= 0 {
		pentominoRoot = find(pentominoIdx)
	}

	final := make([][]cellKey, len(roots))
	newPentominoIdx := -1
	for i, r := range roots {
		final[i] = rootCells[r]
		if r == pentominoRoot {
			newPentominoIdx = i
		}
	}
	return final, newPentominoIdx
}
