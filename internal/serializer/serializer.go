// Package serializer turns a generation result into the two shapes a
// caller consumes: a URL-encoded payload string for legacy embedding, and
// a structured view (grid, word list, stats) for JSON responses.
package serializer

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bodul/crossword/internal/grapheme"
	"github.com/bodul/crossword/internal/puzzle"
)

// encodeGraphemes joins already-segmented graphemes through
// grapheme.EncodeGrapheme, brace-wrapping each multi-codepoint cluster.
func encodeGraphemes(graphemes []string) string {
	var b strings.Builder
	for _, g := range graphemes {
		b.WriteString(grapheme.EncodeGrapheme(g))
	}
	return b.String()
}

// WordEntry describes one word in the structured output. StartX, StartY
// and Direction are only meaningful when Placed is true.
type WordEntry struct {
	Number        int
	Answer        string
	Clue          string
	StartX        int
	StartY        int
	Direction     puzzle.Direction
	GraphemeCount int
	Placed        bool
	Reason        string
}

// Output is the full serialized view of one generation result.
type Output struct {
	Payload  string
	Grid     [][]*string // Grid[y][x] is nil for an empty cell.
	Placed   []WordEntry
	Unplaced []WordEntry
	Stats    puzzle.Stats
}

// Serialize builds the payload string, display grid, and word list for
// result. When removeUnplaced is true the unplaced words are dropped from
// the payload's numbering (but still reported in Output.Unplaced).
func Serialize(result puzzle.Result, removeUnplaced bool) Output {
	grid := make([][]*string, result.Height)
	for y := 0; y < result.Height; y++ {
		grid[y] = make([]*string, result.Width)
		for x := 0; x < result.Width; x++ {
			cell := result.Grid.At(x, y)
			if cell.Occupied() {
				g := cell.Grapheme
				grid[y][x] = &g
			}
		}
	}

	values := url.Values{}
	number := 1

	placed := make([]WordEntry, 0, len(result.Placements))
	for _, p := range result.Placements {
		values.Set("ans"+strconv.Itoa(number), encodeGraphemes(p.Clue.Graphemes))
		values.Set("question"+strconv.Itoa(number), p.Clue.Clue)

		placed = append(placed, WordEntry{
			Number:        number,
			Answer:        p.Clue.Answer,
			Clue:          p.Clue.Clue,
			StartX:        p.StartX,
			StartY:        p.StartY,
			Direction:     p.Direction,
			GraphemeCount: p.Clue.Len(),
			Placed:        true,
		})
		number++
	}

	unplaced := make([]WordEntry, 0, len(result.Unplaced))
	for _, c := range result.Unplaced {
		entry := WordEntry{
			Answer:        c.Answer,
			Clue:          c.Clue,
			GraphemeCount: c.Len(),
			Placed:        false,
			Reason:        "not placed during generation",
		}
		if !removeUnplaced {
			values.Set("ans"+strconv.Itoa(number), encodeGraphemes(c.Graphemes))
			values.Set("question"+strconv.Itoa(number), c.Clue)
			entry.Number = number
			number++
		}
		unplaced = append(unplaced, entry)
	}

	if removeUnplaced {
		values.Set("removeUnplacedWords", "true")
	}

	return Output{
		Payload:  values.Encode(),
		Grid:     grid,
		Placed:   placed,
		Unplaced: unplaced,
		Stats:    result.Stats,
	}
}
