package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padfav/padfav/internal/errors"
	"github.com/padfav/padfav/internal/favorite"
	"github.com/padfav/padfav/internal/kv"
)

// TestFullWorkflow exercises the complete favorites lifecycle against the
// SQLite backend: add → get → update → sort → export → remove → import →
// get (not found after remove, restored after import).
func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := kv.OpenSQLite(tmpDir)
	require.NoError(t, err)

	clk := &testClock{now: time.UnixMilli(1700000000000)}
	s, err := New(Options{
		Backend:    backend,
		Now:        clk.Now,
		ExportsDir: kv.ExportsDir(tmpDir),
	})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	// 1. Add two favorites
	first, err := s.Add(ctx, AddInput{
		Width: floatPtr(60), Height: floatPtr(40),
		X: floatPtr(30), Y: floatPtr(20),
		Title: "left half",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	clk.Advance(time.Second)
	second, err := s.Add(ctx, AddInput{
		Width: floatPtr(100), Height: floatPtr(10),
		Title: "strip",
	})
	require.NoError(t, err)
	require.Equal(t, 2, s.Count(ctx))

	// 2. Get by id
	rec, err := s.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "left half", rec.Title)

	// 3. Update dimensions
	clk.Advance(time.Second)
	updated, err := s.Update(ctx, first.ID, favorite.Patch{Width: floatPtr(80)})
	require.NoError(t, err)
	require.Equal(t, 80.0, updated.Width)
	require.Greater(t, updated.LastModified, first.LastModified)

	// 4. Sort by size: the widened favorite (area 3200) ranks first
	sorted := favorite.Sort(s.GetAll(ctx), favorite.CriterionSize)
	require.Len(t, sorted, 2)
	require.Equal(t, first.ID, sorted[0].ID)

	// 5. Export to file
	export, err := s.ExportToFile(ctx, ExportFileInput{})
	require.NoError(t, err)
	require.Equal(t, 2, export.Count)

	// 6. Remove one favorite
	require.NoError(t, s.Remove(ctx, second.ID))
	require.Equal(t, 1, s.Count(ctx))
	_, err = s.GetByID(ctx, second.ID)
	require.Error(t, err)
	var favErr *errors.FavError
	require.ErrorAs(t, err, &favErr)
	require.Equal(t, errors.ErrNotFound, favErr.Code)

	// 7. Import the export back: the removed favorite reappears, the
	// surviving one is overwritten in place
	result, err := s.ImportFromFile(ctx, ImportFileInput{Path: export.Path})
	require.NoError(t, err)
	require.Equal(t, 1, result.Added)
	require.Equal(t, 1, result.Replaced)
	require.Equal(t, 2, s.Count(ctx))

	restored, err := s.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "strip", restored.Title)
}
