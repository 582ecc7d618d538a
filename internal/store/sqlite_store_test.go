package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labdesks/deskbook/internal/models"
)

func strptr(s string) *string { return &s }

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func sampleGrid() []models.Desk {
	return []models.Desk{
		{ID: 1, Row: 0, Col: 0, DeskType: models.DeskTypeThesis, Label: "D11", BookingAM: strptr("bob")},
		{ID: 2, Row: 0, Col: 1, DeskType: models.DeskTypeStaff, Label: "D12", HolderName: strptr("Prof. Rossi")},
		{ID: 3, Row: 0, Col: 2, DeskType: models.DeskTypeBlocked, Label: "D13"},
	}
}

func TestSaveAndGetGrid(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveGrid("2025-03-14", sampleGrid()))

	desks, fetchedAt, err := s.GetGrid("2025-03-14")
	require.NoError(t, err)
	require.Len(t, desks, 3)
	assert.False(t, fetchedAt.IsZero())
	assert.Equal(t, "D11", desks[0].Label)
	require.NotNil(t, desks[0].BookingAM)
	assert.Equal(t, "bob", *desks[0].BookingAM)
	assert.Equal(t, models.DeskTypeBlocked, desks[2].DeskType)
}

func TestGetGrid_MissingDay(t *testing.T) {
	s := newTestStore(t)

	desks, fetchedAt, err := s.GetGrid("2025-03-14")
	require.NoError(t, err)
	assert.Nil(t, desks)
	assert.True(t, fetchedAt.IsZero())
}

func TestSaveGrid_OverwritesExistingDay(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveGrid("2025-03-14", sampleGrid()))
	require.NoError(t, s.SaveGrid("2025-03-14", sampleGrid()[:1]))

	desks, _, err := s.GetGrid("2025-03-14")
	require.NoError(t, err)
	assert.Len(t, desks, 1)
}

func TestPruneBefore(t *testing.T) {
	s := newTestStore(t)

	for _, day := range []string{"2025-03-12", "2025-03-13", "2025-03-14"} {
		require.NoError(t, s.SaveGrid(day, sampleGrid()))
	}

	pruned, err := s.PruneBefore("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)

	desks, _, err := s.GetGrid("2025-03-13")
	require.NoError(t, err)
	assert.Nil(t, desks)

	desks, _, err = s.GetGrid("2025-03-14")
	require.NoError(t, err)
	assert.Len(t, desks, 3)
}

func TestResolveDBPath_DirectoryInput(t *testing.T) {
	dir := t.TempDir()
	path, err := resolveDBPath(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache.db"), path)
}
