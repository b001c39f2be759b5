package table

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlushCSV(t *testing.T) {
	ctx := context.Background()
	buf := bytes.Buffer{}
	w := New(&buf, CSV)

	require.NoError(t, w.Append(ctx, []string{"stale"}))
	require.NoError(t, w.Clear(ctx))
	require.NoError(t, w.Append(ctx, []string{"Title", "Speaker"}, []string{"Intro", "Jane Doe"}))

	out := w.Flush()
	require.Contains(t, buf.String(), out)
	require.NotContains(t, out, "stale")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Intro,Jane Doe", lines[1])
}

func TestFlushRounded(t *testing.T) {
	buf := bytes.Buffer{}
	w := New(&buf, Rounded)
	require.NoError(t, w.Append(context.Background(), []string{"Title"}, []string{"Intro"}))

	out := w.Flush()
	require.Contains(t, out, "Intro")
	require.Contains(t, out, "╭")
}
