package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteAndReadMeta(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	id := NewID()
	meta := Meta{
		ID:             id,
		Theme:          "animals",
		Language:       "en",
		GridSize:       "18x18",
		RequestedCount: 10,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Mode:           "ai",
	}
	require.NoError(t, s.WriteMeta(id, meta))

	got, err := s.ReadMeta(id)
	require.NoError(t, err)
	require.Equal(t, meta.Theme, got.Theme)
	require.Equal(t, meta.GridSize, got.GridSize)
}

func TestNewID_FormatsAsCwPrefixedHex(t *testing.T) {
	id := NewID()
	require.Regexp(t, `^cw_[0-9a-f]{12}$`, id)
}

func TestReadPolyomino_MissingFileReturnsError(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	id := NewID()
	require.NoError(t, s.WriteMeta(id, Meta{ID: id}))

	_, err = s.ReadPolyomino(id)
	require.Error(t, err, "polyomino.json is optional and should error rather than panic when absent")
}

func TestWriteGrid_RoundTripsNilAndPopulatedCells(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	id := NewID()
	letter := "A"
	grid := GridFile{
		Width:  2,
		Height: 1,
		Cells: [][]GridCellRecord{
			{{G: &letter}, {G: nil}},
		},
	}
	require.NoError(t, s.WriteGrid(id, grid))

	got, err := s.ReadGrid(id)
	require.NoError(t, err)
	require.Equal(t, 2, got.Width)
	require.NotNil(t, got.Cells[0][0].G)
	require.Equal(t, "A", *got.Cells[0][0].G)
	require.Nil(t, got.Cells[0][1].G)
}

func TestList_SkipsDirectoriesWithoutReadableMeta(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	idGood := NewID()
	require.NoError(t, s.WriteMeta(idGood, Meta{ID: idGood, CreatedAt: time.Now()}))

	idBad := "cw_deadbeef0000"
	require.NoError(t, s.WriteSummary(idBad, Summary{Mode: "ai"})) // creates dir, no meta.json

	result, err := s.List()
	require.NoError(t, err)
	require.Contains(t, result.IDs, idGood)
	require.Contains(t, result.Skipped, idBad)
	require.NotContains(t, result.IDs, idBad)
}

func TestList_OrdersMostRecentFirst(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	older := NewID()
	newer := NewID()
	require.NoError(t, s.WriteMeta(older, Meta{ID: older, CreatedAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, s.WriteMeta(newer, Meta{ID: newer, CreatedAt: time.Now()}))

	result, err := s.List()
	require.NoError(t, err)
	require.Equal(t, []string{newer, older}, result.IDs)
}
