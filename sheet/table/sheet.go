package table

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Style int

const (
	Rounded Style = iota
	CSV
)

// worksheet buffers rows in memory and renders them with Flush.
type worksheet struct {
	out   io.Writer
	style Style
	rows  [][]string
}

func New(out io.Writer, style Style) *worksheet {
	return &worksheet{out: out, style: style}
}

func (w *worksheet) Clear(_ context.Context) error {
	w.rows = w.rows[:0]
	return nil
}

func (w *worksheet) Append(_ context.Context, rows ...[]string) error {
	for _, r := range rows {
		w.rows = append(w.rows, append([]string(nil), r...))
	}
	return nil
}

// Flush renders the buffered rows, the first one as the table header.
func (w *worksheet) Flush() string {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	for i, r := range w.rows {
		row := make(table.Row, len(r))
		for j, c := range r {
			row[j] = c
		}
		if i == 0 {
			t.AppendHeader(row)
			continue
		}
		t.AppendRow(row)
	}
	if w.style == CSV {
		return t.RenderCSV()
	}
	t.SetStyle(table.StyleRounded)
	return t.Render()
}
