// Package placement implements the deterministic crossword placement
// engine: spec.md §4.3. It sorts candidates by connectivity, places words
// so they interlock at shared graphemes, enforces adjacency/boundary
// rules, optionally retries with shuffled orderings, and crops the grid
// to its tight bounding box.
package placement

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/bodul/crossword/internal/grapheme"
	"github.com/bodul/crossword/internal/puzzle"
)

// defaultRetryAttempts matches spec.md §4.3's public contract default.
const defaultRetryAttempts = 20

// lowFillRetryThreshold and lowFillWarnThreshold are the fill-ratio
// thresholds from spec.md §4.3.6.
const (
	lowFillRetryThreshold = 0.6
	lowFillWarnThreshold  = 0.4
)

// Params configures one generation call.
type Params struct {
	Clues         []puzzle.ClueItem
	Width         int
	Height        int
	Seed          *int64
	RetryAttempts int
}

// Generate runs the seeded, deterministic placement search described in
// spec.md §4.3 and returns the cropped result.
func Generate(p Params) puzzle.Result {
	retryAttempts := p.RetryAttempts
	if retryAttempts <= 0 {
		retryAttempts = defaultRetryAttempts
	}

	var seed int64
	if p.Seed != nil {
		seed = *p.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	ordered := sortedByConnectivity(p.Clues)

	best := runAttempt(ordered, p.Width, p.Height, seed, false)
	ratio := fillRatio(best, len(p.Clues))

	for attempt := 0; ratio < lowFillRetryThreshold && attempt < retryAttempts; attempt++ {
		retrySeed := seed + int64(attempt+1)*1_000_003
		rng := rand.New(rand.NewSource(retrySeed))

		shuffled := make([]puzzle.ClueItem, len(ordered))
		copy(shuffled, ordered)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		candidate := runAttempt(shuffled, p.Width, p.Height, retrySeed, true)
		candidateFill := fillRatio(candidate, len(p.Clues))
		if len(candidate.placements) > len(best.placements) {
			best = candidate
			ratio = candidateFill
		}
	}

	result := crop(best, p.Width, p.Height)
	result.Stats = puzzle.Stats{
		Requested: len(p.Clues),
		Placed:    len(result.Placements),
		Unplaced:  len(result.Unplaced),
		FillRatio: ratio,
	}

	if ratio < lowFillWarnThreshold {
		pct := int(ratio * 100)
		result.Warning = lowFillWarning(result.Stats.Placed, result.Stats.Requested, pct)
	}

	return result
}

func fillRatio(r attemptResult, requested int) float64 {
	if requested == 0 {
		return 0
	}
	return float64(len(r.placements)) / float64(requested)
}

func lowFillWarning(placed, requested, pct int) string {
	return fmt.Sprintf("Grid too constrained: only %d/%d words placed (%d%%).", placed, requested, pct)
}

// attemptResult is the uncropped outcome of one placement pass.
type attemptResult struct {
	grid        *puzzle.Grid
	placements  []puzzle.Placement
	unplaced    []puzzle.ClueItem
	width       int
	height      int
}

// sortedByConnectivity orders clues by intersection_score DESC, then
// grapheme length DESC, stable (spec.md §4.3.1).
func sortedByConnectivity(clues []puzzle.ClueItem) []puzzle.ClueItem {
	scores := intersectionScores(clues)
	type scored struct {
		item  puzzle.ClueItem
		score int
		order int
	}
	ranked := make([]scored, len(clues))
	for i, c := range clues {
		ranked[i] = scored{item: c, score: scores[i], order: i}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].item.Len() > ranked[j].item.Len()
	})
	out := make([]puzzle.ClueItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

func intersectionScores(clues []puzzle.ClueItem) []int {
	sets := make([]map[string]bool, len(clues))
	for i, c := range clues {
		set := make(map[string]bool, len(c.Graphemes))
		for _, g := range c.Graphemes {
			set[grapheme.NFC(g)] = true
		}
		sets[i] = set
	}
	scores := make([]int, len(clues))
	for i := range clues {
		for j := range clues {
			if i == j {
				continue
			}
			if intersects(sets[i], sets[j]) {
				scores[i]++
			}
		}
	}
	return scores
}

func intersects(a, b map[string]bool) bool {
	for g := range a {
		if b[g] {
			return true
		}
	}
	return false
}

// runAttempt places as many of ordered as it can into a fresh width x
// height grid, in order, using randomized tie-breaking iff retry is true.
func runAttempt(ordered []puzzle.ClueItem, width, height int, seed int64, retry bool) attemptResult {
	e := newEngine(width, height, seed)
	var unplaced []puzzle.ClueItem

	for i, clue := range ordered {
		var ok bool
		if len(e.placements) == 0 {
			ok = e.placeFirstWord(clue, ordered[i+1:], retry)
		} else {
			ok = e.placeSubsequentWord(clue, ordered, retry)
		}
		if !ok {
			unplaced = append(unplaced, clue)
		}
	}

	return attemptResult{
		grid:       e.grid,
		placements: e.placements,
		unplaced:   unplaced,
		width:      width,
		height:     height,
	}
}

// engine owns the grid, the committed placements, the start records, the
// word-id counter, and the seeded PRNG for one placement attempt.
type engine struct {
	grid         *puzzle.Grid
	placements   []puzzle.Placement
	startRecords []puzzle.StartRecord
	nextWordID   int
	rng          *rand.Rand
}

func newEngine(width, height int, seed int64) *engine {
	return &engine{
		grid:       puzzle.NewGrid(width, height),
		nextWordID: 1,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// placeFirstWord centers clue in the grid, trying both orientations
// (spec.md §4.3.2).
func (e *engine) placeFirstWord(clue puzzle.ClueItem, remaining []puzzle.ClueItem, retry bool) bool {
	orientations := []puzzle.Direction{puzzle.Across, puzzle.Down}
	if retry {
		e.rng.Shuffle(len(orientations), func(i, j int) {
			orientations[i], orientations[j] = orientations[j], orientations[i]
		})
	}

	for _, dir := range orientations {
		startX, startY := centerStart(clue.Len(), e.grid.Width, e.grid.Height, dir)
		p := puzzle.Placement{
			WordID:    e.nextWordID,
			Clue:      clue,
			StartX:    startX,
			StartY:    startY,
			Direction: dir,
			Placed:    true,
		}
		if e.validate(p) {
			e.commit(p)
			return true
		}
	}
	return false
}

func centerStart(length, width, height int, dir puzzle.Direction) (int, int) {
	if dir == puzzle.Across {
		return (width - length) / 2, height / 2
	}
	return width / 2, (height - length) / 2
}

// placeSubsequentWord enumerates every intersection with an already
// placed word, retains the valid ones, and commits the winner by the
// tie-break rule in spec.md §4.3.3.
func (e *engine) placeSubsequentWord(clue puzzle.ClueItem, all []puzzle.ClueItem, retry bool) bool {
	var candidates []puzzle.Placement

	for _, placed := range e.placements {
		pairs := grapheme.FindCommonGraphemes(clue.Graphemes, placed.Clue.Graphemes)
		placedCells := placed.Cells()
		for _, pair := range pairs {
			cellX, cellY := placedCells[pair.J][0], placedCells[pair.J][1]
			dir := perpendicular(placed.Direction)

			var startX, startY int
			if dir == puzzle.Across {
				startX, startY = cellX-pair.I, cellY
			} else {
				startX, startY = cellX, cellY-pair.I
			}

			p := puzzle.Placement{
				WordID:    e.nextWordID,
				Clue:      clue,
				StartX:    startX,
				StartY:    startY,
				Direction: dir,
				Placed:    true,
			}
			if e.validate(p) {
				candidates = append(candidates, p)
			}
		}
	}

	if len(candidates) == 0 {
		return false
	}

	winner := e.pickWinner(candidates, retry)
	e.commit(winner)
	return true
}

func perpendicular(d puzzle.Direction) puzzle.Direction {
	if d == puzzle.Across {
		return puzzle.Down
	}
	return puzzle.Across
}

// pickWinner breaks ties among candidate placements of the same word by
// distance to grid center (default) or PRNG-drawn rank (retry).
func (e *engine) pickWinner(candidates []puzzle.Placement, retry bool) puzzle.Placement {
	if retry {
		idx := e.rng.Intn(len(candidates))
		return candidates[idx]
	}

	best := candidates[0]
	bestDist := distToCenter(best, e.grid.Width, e.grid.Height)
	for _, c := range candidates[1:] {
		d := distToCenter(c, e.grid.Width, e.grid.Height)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func distToCenter(p puzzle.Placement, width, height int) int {
	cells := p.Cells()
	midX := cells[0][0]
	midY := cells[0][1]
	if p.Direction == puzzle.Across {
		midX = p.StartX + p.Clue.Len()/2
	} else {
		midY = p.StartY + p.Clue.Len()/2
	}
	return abs(midX-width/2) + abs(midY-height/2)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// commit assigns the next word id, writes every covered cell, appends a
// start record, and appends the placement (spec.md §4.3.5).
func (e *engine) commit(p puzzle.Placement) {
	p.WordID = e.nextWordID
	e.nextWordID++

	for i, xy := range p.Cells() {
		x, y := xy[0], xy[1]
		cell := e.grid.Cells[y][x]
		if !cell.Occupied() {
			cell.Grapheme = p.Clue.Graphemes[i]
		}
		cell.WordIDs = append(cell.WordIDs, p.WordID)
		e.grid.Cells[y][x] = cell
	}

	e.startRecords = append(e.startRecords, puzzle.StartRecord{
		X:             p.StartX,
		Y:             p.StartY,
		Direction:     p.Direction,
		FirstGrapheme: p.Clue.Graphemes[0],
	})
	e.placements = append(e.placements, p)
}
