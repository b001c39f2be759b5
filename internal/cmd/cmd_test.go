package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/calendar"
	"git.sr.ht/~mariusor/schedule/internal/config"
)

const schedulePage = `<html><body>
<div id="Thursday">
  <div class="session-modal">
    <h1 class="title">Intro</h1>
    <p class="speaker">Jane Doe</p>
    <p class="time"><span class="start-time">9:00 AM</span><span class="end-time">&nbsp;&mdash;&nbsp;9:30 AM</span>, Main Hall</p>
    <div class="information"><p>Welcome talk.</p></div>
  </div>
</div>
<div id="Friday"></div>
<div id="Saturday"></div>
</body></html>`

const expectedSchedule = `[
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
]
`

func TestParseSchedule(t *testing.T) {
	sessions, err := ParseSchedule(strings.NewReader(schedulePage), config.Default(), newLogger(false))
	require.NoError(t, err)

	b, err := calendar.Marshal(sessions)
	require.NoError(t, err)
	require.Equal(t, expectedSchedule, string(b))
}

func TestParseScheduleCardinality(t *testing.T) {
	page := strings.Replace(schedulePage, "<p>Welcome talk.</p>", "<p>Welcome.</p><p>Talk.</p>", 1)
	_, err := ParseSchedule(strings.NewReader(page), config.Default(), newLogger(false))

	var cerr *calendar.DescriptionCardinalityError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, 2, cerr.Count)
}

func TestParseScheduleMissingDay(t *testing.T) {
	page := strings.Replace(schedulePage, `<div id="Saturday"></div>`, "", 1)
	_, err := ParseSchedule(strings.NewReader(page), config.Default(), newLogger(false))

	var serr *calendar.MissingSectionError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, calendar.LabelSaturday, serr.Day)
}

func testContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet(AppName, flag.ContinueOnError)
	set.Bool("verbose", false, "")
	set.Bool("v", false, "")
	set.Bool("save", false, "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestVerbose(t *testing.T) {
	tests := []struct {
		args       []string
		verbose    bool
		positional []string
	}{
		{args: []string{"page.html"}, verbose: false, positional: []string{"page.html"}},
		{args: []string{"page.html", "-v"}, verbose: true, positional: []string{"page.html"}},
		{args: []string{"page.html", "--verbose"}, verbose: true, positional: []string{"page.html"}},
		{args: []string{"--verbose", "page.html"}, verbose: true, positional: []string{"page.html"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			c := testContext(t, tt.args...)
			require.Equal(t, tt.verbose, verbose(c))
			require.Equal(t, tt.positional, positional(c))
		})
	}
}

func TestSaveFlag(t *testing.T) {
	tests := []struct {
		args       []string
		save       bool
		positional []string
	}{
		{args: []string{"page.html"}, save: false, positional: []string{"page.html"}},
		{args: []string{"--save", "page.html"}, save: true, positional: []string{"page.html"}},
		{args: []string{"page.html", "--save"}, save: true, positional: []string{"page.html"}},
		{args: []string{"page.html", "-save", "-v"}, save: true, positional: []string{"page.html"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			c := testContext(t, tt.args...)
			require.Equal(t, tt.save, boolFlag(c, "save"))
			require.Equal(t, tt.positional, positional(c))
		})
	}
}

func TestParseUnknownFlag(t *testing.T) {
	c := testContext(t, "page.html", "--sav")
	err := Parse(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown flag --sav")
}

func TestWriteDays(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, writeDays(&buf, config.Default()))

	expected := ""
	for _, d := range calendar.DefaultDays {
		expected += fmt.Sprintf("%s: %s EDT\n", d.Name, d.Date)
	}
	require.Equal(t, expected, buf.String())
}
