package cmd

import (
	"fmt"
	"os"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/calendar"
	"git.sr.ht/~mariusor/schedule/storage"
)

var ListCmd = cli.Command{
	Name:  "list",
	Usage: "Lists already archived sessions",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "day",
			Usage: "Which days to list",
		},
	},
	Action: listSessions,
}

func listSessions(c *cli.Context) error {
	l, opts, err := setup(c)
	if err != nil {
		return err
	}
	days := c.StringSlice("day")
	for _, d := range days {
		if !calendar.ValidDay(d) {
			return errors.Newf("invalid day %s, expected one of %v", d, calendar.ValidDays)
		}
	}
	if len(days) == 0 {
		days = opts.Days.Names()
	}

	loc, err := opts.Location()
	if err != nil {
		return err
	}
	start, span, err := opts.Days.Span(loc)
	if err != nil {
		return err
	}
	file, err := archiveFile(c, opts, l)
	if err != nil {
		return err
	}

	l.WithContext(lw.Ctx{"start": start, "end": start.Add(span)}).Debugf("Loading sessions")
	sessions, err := archive(file, opts, l).LoadSessions(storage.Cursor(start, span), days...)
	if err != nil {
		return errors.Annotatef(err, "unable to load sessions")
	}
	if len(sessions) == 0 {
		fmt.Println("nothing found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Day", "Start", "End", "Title", "Speaker", "Location"})
	for _, ses := range sessions {
		day, _ := opts.Days.DayOf(ses.StartTime.At.In(loc))
		t.AppendRow(table.Row{
			day,
			ses.StartTime.At.In(loc).Format("15:04"),
			ses.EndTime.At.In(loc).Format("15:04"),
			ses.Title,
			ses.Speaker.Name,
			ses.Location,
		})
	}
	t.Render()
	return nil
}
