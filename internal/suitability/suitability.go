// Package suitability scores and filters clue candidates before they reach
// the placement engine, per spec.md §4.2.
package suitability

import (
	"fmt"
	"sort"

	"github.com/bodul/crossword/internal/grapheme"
	"github.com/bodul/crossword/internal/puzzle"
)

// Result is the outcome of filtering: the clues kept, the clues removed
// (with a short reason each), and an optional warning for the caller.
type Result struct {
	Kept    []puzzle.ClueItem
	Removed []Removed
	Warning string
}

// Removed names a dropped clue and why it was dropped.
type Removed struct {
	Clue   puzzle.ClueItem
	Reason string
}

type candidate struct {
	item  puzzle.ClueItem
	score int
	order int
}

// capForSize is the step function from spec.md §4.2 step 4.
func capForSize(s int) int {
	switch {
	case s <= 7:
		return 8
	case s <= 10:
		return 12
	case s <= 15:
		return 20
	case s <= 20:
		return 30
	default:
		return 40
	}
}

// Filter scores each clue by how many other clues share at least one
// grapheme, drops isolated long words and words that cannot fit the grid,
// then caps the surviving list to the grid-size-dependent capacity.
func Filter(clues []puzzle.ClueItem, width, height int) Result {
	scores := intersectionScores(clues)

	s := width
	if height < s {
		s = height
	}

	var survivors []candidate
	var removed []Removed

	for i, c := range clues {
		if scores[i] == 0 && c.Len() > 3 {
			removed = append(removed, Removed{Clue: c, Reason: "no shared graphemes with any other word"})
			continue
		}
		if s <= 11 && c.Len() > s-2 {
			removed = append(removed, Removed{Clue: c, Reason: "too long for grid"})
			continue
		}
		survivors = append(survivors, candidate{item: c, score: scores[i], order: i})
	}

	capacity := capForSize(s)
	if len(survivors) > capacity {
		sorted := make([]candidate, len(survivors))
		copy(sorted, survivors)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].score > sorted[j].score
		})

		keep := make(map[int]bool, capacity)
		for _, c := range sorted[:capacity] {
			keep[c.order] = true
		}

		var keptList []candidate
		for _, c := range survivors {
			if keep[c.order] {
				keptList = append(keptList, c)
			} else {
				removed = append(removed, Removed{Clue: c.item, Reason: "exceeds grid word-count cap"})
			}
		}
		survivors = keptList
	}

	kept := make([]puzzle.ClueItem, len(survivors))
	for i, c := range survivors {
		kept[i] = c.item
	}

	res := Result{Kept: kept, Removed: removed}
	if len(removed) > 0 {
		res.Warning = fmt.Sprintf("%d word(s) removed due to low crossword suitability", len(removed))
	}
	return res
}

// intersectionScores computes, for each clue index, the number of other
// clues sharing at least one grapheme with it.
func intersectionScores(clues []puzzle.ClueItem) []int {
	normalized := make([]map[string]bool, len(clues))
	for i, c := range clues {
		set := make(map[string]bool, len(c.Graphemes))
		for _, g := range c.Graphemes {
			set[grapheme.NFC(g)] = true
		}
		normalized[i] = set
	}

	scores := make([]int, len(clues))
	for i := range clues {
		for j := range clues {
			if i == j {
				continue
			}
			if setsIntersect(normalized[i], normalized[j]) {
				scores[i]++
			}
		}
	}
	return scores
}

func setsIntersect(a, b map[string]bool) bool {
	for g := range a {
		if b[g] {
			return true
		}
	}
	return false
}
