package polyomino

import (
	"strings"
	"testing"

	"github.com/bodul/crossword/internal/puzzle"
)

// mkPlacement builds a Placement for an ASCII word, splitting it into
// one-grapheme-per-rune for test convenience.
func mkPlacement(wordID int, answer string, startX, startY int, dir puzzle.Direction) puzzle.Placement {
	graphemes := strings.Split(answer, "")
	return puzzle.Placement{
		WordID: wordID,
		Clue: puzzle.ClueItem{
			Answer:    answer,
			Clue:      "clue " + answer,
			Graphemes: graphemes,
		},
		StartX:    startX,
		StartY:    startY,
		Direction: dir,
		Placed:    true,
	}
}

func totalCells(pieces []Piece) int {
	n := 0
	for _, p := range pieces {
		n += len(p.Cells)
	}
	return n
}

func TestGenerate_SingleCrossCoversEveryCellOnce(t *testing.T) {
	// HELLO across at (2,2), HELP down through the second L at (5,2).
	placements := []puzzle.Placement{
		mkPlacement(0, "HELLO", 2, 2, puzzle.Across),
		mkPlacement(1, "HELP", 5, 0, puzzle.Down),
	}

	result := Generate(placements, 10, 10, "animals", DefaultConfig())

	if result.GridWidth != 10 || result.GridHeight != 10 {
		t.Fatalf("unexpected grid dims: %dx%d", result.GridWidth, result.GridHeight)
	}

	registry := buildRegistry(placements)
	if got := totalCells(result.Pieces); got != len(registry) {
		t.Fatalf("pieces cover %d cells, want %d", got, len(registry))
	}

	// The merge pass is advisory, not guaranteed: a piece left below
	// MinPieceSize or above MaxPieceSize after merging only produces a
	// Validation issue, never a dropped or duplicated cell.
	seen := make(map[cellKey]bool)
	for _, p := range result.Pieces {
		for _, c := range p.Cells {
			k := cellKey{X: p.AnchorX + c.RelX, Y: p.AnchorY + c.RelY}
			if seen[k] {
				t.Errorf("cell %v assigned to more than one piece", k)
			}
			seen[k] = true
		}
	}
}

func TestGenerate_PieceAnchorAndRelativeCoordinates(t *testing.T) {
	placements := []puzzle.Placement{
		mkPlacement(0, "CAT", 5, 5, puzzle.Across),
	}
	result := Generate(placements, 20, 20, "animals", Config{MinPieceSize: 1, MaxPieceSize: 4})

	if len(result.Pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(result.Pieces))
	}
	piece := result.Pieces[0]
	if piece.AnchorX != 5 || piece.AnchorY != 5 {
		t.Fatalf("anchor = (%d,%d), want (5,5)", piece.AnchorX, piece.AnchorY)
	}
	for i, cell := range piece.Cells {
		if cell.RelY != 0 || cell.RelX != i {
			t.Errorf("cell %d: rel=(%d,%d), want (%d,0)", i, cell.RelX, cell.RelY, i)
		}
	}
}

func TestGenerate_NeighborBlockIDsAcrossPieceBoundary(t *testing.T) {
	// One four-cell word, forced into separate small pieces by a
	// MaxPieceSize of 2: the neighbor link between cells in different
	// pieces must still resolve via the shared registry.
	placements := []puzzle.Placement{
		mkPlacement(0, "ABCD", 0, 0, puzzle.Across),
	}
	result := Generate(placements, 10, 10, "t", Config{MinPieceSize: 1, MaxPieceSize: 2})

	// With MaxPieceSize 2 the 4-cell word must split into two pieces.
	if len(result.Pieces) < 2 {
		t.Fatalf("expected word to split across pieces, got %d piece(s)", len(result.Pieces))
	}

	registry := buildRegistry(placements)
	for _, piece := range result.Pieces {
		for _, cell := range piece.Cells {
			gx, gy := piece.AnchorX+cell.RelX, piece.AnchorY+cell.RelY
			info := registry[cellKey{X: gx, Y: gy}]
			if info.BlockID != cell.GlobalBlockID {
				t.Errorf("cell (%d,%d): block id %d, registry has %d", gx, gy, cell.GlobalBlockID, info.BlockID)
			}
			for dir := 0; dir < 4; dir++ {
				dx, dy := neighborOffset(dir)
				want := noNeighbor
				if n, ok := registry[cellKey{X: gx + dx, Y: gy + dy}]; ok {
					want = n.BlockID
				}
				if cell.Neighbors[dir] != want {
					t.Errorf("cell (%d,%d) dir %d: neighbor block id %d, want %d", gx, gy, dir, cell.Neighbors[dir], want)
				}
			}
		}
	}
}

func TestGenerate_CrossPentominoFormedAtIntersection(t *testing.T) {
	// HELLO across, HELP down crossing through the shared "L" with all
	// four neighbors of the intersection filled.
	placements := []puzzle.Placement{
		mkPlacement(0, "HELLO", 0, 2, puzzle.Across),
		mkPlacement(1, "HELP", 2, 0, puzzle.Down),
	}
	config := Config{MinPieceSize: 2, MaxPieceSize: 6, AllowSingleCrossPentomino: true}
	result := Generate(placements, 10, 10, "t", config)

	foundFive := false
	for _, p := range result.Pieces {
		if len(p.Cells) == 5 {
			foundFive = true
		}
	}
	if !foundFive {
		t.Fatalf("expected a 5-cell cross-pentomino piece, pieces: %+v", result.Pieces)
	}
	for _, issue := range result.Validation.Issues {
		if strings.Contains(issue, "not authored by the cross-pentomino path") {
			t.Errorf("unexpected validation issue: %s", issue)
		}
	}
}

func TestGenerate_MergesUndersizedPiece(t *testing.T) {
	// A 5-cell word under MaxPieceSize 4 grows as a 4-cell piece plus a
	// 1-cell remainder; the merge pass must absorb that remainder into
	// its neighbor rather than leave it below MinPieceSize.
	placements := []puzzle.Placement{
		mkPlacement(0, "ABCDE", 0, 0, puzzle.Across),
	}
	config := Config{MinPieceSize: 2, MaxPieceSize: 4}
	result := Generate(placements, 10, 10, "t", config)

	for _, p := range result.Pieces {
		if len(p.Cells) < config.MinPieceSize {
			t.Errorf("piece %s has %d cells, below minimum %d after merge pass", p.ID, len(p.Cells), config.MinPieceSize)
		}
	}
	if got := totalCells(result.Pieces); got != 5 {
		t.Fatalf("pieces cover %d cells, want 5", got)
	}
}

func TestGenerate_EmptyPlacementsYieldsNoPieces(t *testing.T) {
	result := Generate(nil, 10, 10, "t", DefaultConfig())
	if len(result.Pieces) != 0 {
		t.Fatalf("expected no pieces for empty input, got %d", len(result.Pieces))
	}
	if len(result.Validation.Issues) != 0 {
		t.Fatalf("expected no validation issues for empty input, got %v", result.Validation.Issues)
	}
}

func TestGenerate_PiecesStayWithinMaxPieceSize(t *testing.T) {
	placements := []puzzle.Placement{
		mkPlacement(0, "ABCDEFGH", 0, 0, puzzle.Across),
	}
	// An 8-cell word under MaxPieceSize 3 grows as pieces of 3, 3 and 2
	// cells; none is below MinPieceSize, so the merge pass leaves them.
	config := Config{MinPieceSize: 2, MaxPieceSize: 3}
	result := Generate(placements, 10, 10, "t", config)

	// growPieces caps every piece at MaxPieceSize and no merge happens
	// here, so no piece exceeds it.
	for _, p := range result.Pieces {
		if len(p.Cells) > config.MaxPieceSize && len(p.Cells) != 5 {
			t.Errorf("piece %s has %d cells, should never exceed MaxPieceSize %d", p.ID, len(p.Cells), config.MaxPieceSize)
		}
	}
}

func TestGenerate_DeterministicAcrossRepeatedCalls(t *testing.T) {
	placements := []puzzle.Placement{
		mkPlacement(0, "HELLO", 2, 2, puzzle.Across),
		mkPlacement(1, "HELP", 3, 0, puzzle.Down),
	}
	config := DefaultConfig()

	first := Generate(placements, 10, 10, "t", config)
	second := Generate(placements, 10, 10, "t", config)

	if len(first.Pieces) != len(second.Pieces) {
		t.Fatalf("piece count differs across runs: %d vs %d", len(first.Pieces), len(second.Pieces))
	}
	for i := range first.Pieces {
		a, b := first.Pieces[i], second.Pieces[i]
		if a.ID != b.ID || a.AnchorX != b.AnchorX || a.AnchorY != b.AnchorY || len(a.Cells) != len(b.Cells) {
			t.Errorf("piece %d differs across runs: %+v vs %+v", i, a, b)
		}
	}
}
