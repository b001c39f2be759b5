package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/internal/config"
)

var DaysCmd = cli.Command{
	Name:   "days",
	Usage:  "Lists the configured conference days and their dates",
	Action: showDays,
}

func writeDays(w io.Writer, opts config.Options) error {
	loc, err := opts.Location()
	if err != nil {
		return err
	}
	for _, d := range opts.Days {
		date, err := opts.Days.Date(d.Name, loc)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s\n", d.Name, date.Format("2006-01-02 MST"))
	}
	return nil
}

func showDays(c *cli.Context) error {
	_, opts, err := setup(c)
	if err != nil {
		return err
	}
	return writeDays(os.Stdout, opts)
}
