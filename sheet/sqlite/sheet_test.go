package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.sr.ht/~mariusor/schedule/sheet"
)

func TestAppendAndClear(t *testing.T) {
	ctx := context.Background()
	w, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, w.Append(ctx, []string{"a", "b"}, []string{"c"}))
	require.NoError(t, w.Append(ctx, []string{"d"}))

	rows, err := w.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "a", rows[0][0])
	require.Equal(t, "b", rows[0][1])
	require.Equal(t, "", rows[0][12])
	require.Equal(t, "c", rows[1][0])
	require.Equal(t, "d", rows[2][0])

	require.NoError(t, w.Clear(ctx))
	rows, err = w.Rows(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSyncReplacesRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFile)

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(ctx, []string{"stale"}, []string{"rows"}, []string{"here"}))
	require.NoError(t, sheet.Sync(ctx, w, sheet.Headers, nil))
	require.NoError(t, w.Close())

	w, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	rows, err := w.Rows(ctx)
	require.NoError(t, err)
	require.Equal(t, [][]string{sheet.Headers}, rows)
}
