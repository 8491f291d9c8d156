package polyomino

import "fmt"

// validate flags advisory issues in the final partition per spec.md
// §4.4: undersized pieces, oversized non-pentomino pieces, more than one
// 5-cell piece, and a 5-cell piece not authored by the cross-pentomino
// path. The partition is returned regardless of these flags.
func validate(pieces []Piece, config Config, pentominoPieceIdx int) Validation {
	var issues []string
	fiveCellCount := 0

	for i, piece := range pieces {
		size := len(piece.Cells)

		if size < config.MinPieceSize {
			issues = append(issues, fmt.Sprintf("%s: size %d is below the minimum %d", piece.ID, size, config.MinPieceSize))
		}
		if size > config.MaxPieceSize && size != 5 {
			issues = append(issues, fmt.Sprintf("%s: size %d exceeds the maximum %d", piece.ID, size, config.MaxPieceSize))
		}
		if size == 5 {
			fiveCellCount++
			if i != pentominoPieceIdx {
				issues = append(issues, fmt.Sprintf("%s: 5-cell piece was not authored by the cross-pentomino path", piece.ID))
			}
		}
	}

	if fiveCellCount > 1 {
		issues = append(issues, fmt.Sprintf("found %d five-cell pieces, expected at most 1", fiveCellCount))
	}

	return Validation{Issues: issues}
}
