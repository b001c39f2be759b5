package sheet

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~mariusor/schedule/calendar"
)

type recorder struct {
	calls   []string
	rows    [][]string
	failAt  int
	appends int
}

func (r *recorder) Clear(context.Context) error {
	r.calls = append(r.calls, "clear")
	r.rows = nil
	return nil
}

func (r *recorder) Append(_ context.Context, rows ...[]string) error {
	r.appends++
	if r.failAt > 0 && r.appends == r.failAt {
		return errors.New("quota exceeded")
	}
	r.calls = append(r.calls, "append")
	r.rows = append(r.rows, rows...)
	return nil
}

func photo(s string) *string {
	return &s
}

func sessions(t *testing.T) calendar.Sessions {
	loc, err := calendar.LoadZone(calendar.DefaultZone)
	require.NoError(t, err)
	date := time.Date(2016, 8, 18, 0, 0, 0, 0, loc)
	return calendar.Sessions{
		calendar.Combine(calendar.Session{
			Title:       "Intro",
			StartTime:   calendar.Bare(calendar.TimeOfDay{Hour: 9}),
			EndTime:     calendar.Bare(calendar.TimeOfDay{Hour: 9, Minute: 30}),
			Speaker:     calendar.Speaker{Name: "Jane Doe"},
			Description: "Welcome talk.",
			Location:    "Main Hall",
		}, date),
		calendar.Combine(calendar.Session{
			Title:     "Types",
			StartTime: calendar.Bare(calendar.TimeOfDay{Hour: 10}),
			EndTime:   calendar.Bare(calendar.TimeOfDay{Hour: 11}),
			Speaker: calendar.Speaker{
				Name:  "John Roe",
				Bio:   calendar.NewBio("Builds compilers."),
				Photo: photo("http://abstractions.io/img/john.png"),
			},
			Description: "Types & more.",
			Location:    "Room 2",
		}, date),
	}
}

func TestHeaders(t *testing.T) {
	require.Len(t, Headers, Columns)
	require.Equal(t, "Start Date", Headers[0])
	require.Equal(t, "Location", Headers[colLocation])
	require.Equal(t, "Description", Headers[colDescription])
	for _, h := range Headers[3:9] {
		require.Empty(t, h)
	}
}

func TestRow(t *testing.T) {
	ss := sessions(t)

	want := []string{
		"2016-08-18T09:00:00-04:00", "2016-08-18T09:30:00-04:00", "Intro",
		"", "", "", "", "", "",
		"Main Hall", "Jane Doe", "", "Welcome talk.",
	}
	if d := cmp.Diff(want, Row(ss[0])); d != "" {
		t.Errorf("Row() mismatch (-want +got):\n%s", d)
	}
	require.Equal(t, "http://abstractions.io/img/john.png", Row(ss[1])[colSpeakerImg])
}

func TestSync(t *testing.T) {
	ss := sessions(t)
	r := &recorder{rows: [][]string{{"stale"}}}

	require.NoError(t, Sync(context.Background(), r, nil, ss))
	require.Equal(t, []string{"clear", "append", "append"}, r.calls)
	require.Len(t, r.rows, len(ss)+1)
	require.Equal(t, Headers, r.rows[0])
	require.Equal(t, "Intro", r.rows[1][colTitle])
	require.Equal(t, "Types", r.rows[2][colTitle])
}

func TestSyncEmpty(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Sync(context.Background(), r, Headers, nil))
	require.Equal(t, [][]string{Headers}, r.rows)
}

func TestSyncPartialFailure(t *testing.T) {
	r := &recorder{failAt: 2}
	err := Sync(context.Background(), r, Headers, sessions(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exceeded")
	// the header stays behind, there is no rollback
	require.Equal(t, [][]string{Headers}, r.rows)
}

func TestReadSessions(t *testing.T) {
	doc := `[
  {
    "description": "Welcome talk.",
    "end_time": "2016-08-18T09:30:00-04:00",
    "location": "Main Hall",
    "speaker": {
      "bio": null,
      "name": "Jane Doe",
      "photo": null
    },
    "start_time": "2016-08-18T09:00:00-04:00",
    "title": "Intro"
  }
]`
	ss, err := ReadSessions(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, ss, 1)
	require.True(t, ss[0].Equals(sessions(t)[0]))

	_, err = ReadSessions(strings.NewReader(`{"title": 1}`))
	require.Error(t, err)
}
