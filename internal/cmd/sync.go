package cmd

import (
	"context"
	"os"
	"path/filepath"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/sheet"
	"git.sr.ht/~mariusor/schedule/sheet/sqlite"
	"git.sr.ht/~mariusor/schedule/sheet/table"
)

var SyncCmd = cli.Command{
	Name:      "sync",
	Usage:     "Replaces the contents of the worksheet with the sessions of a schedule document",
	ArgsUsage: "<schedule.json>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "The SQLite database holding the worksheet, defaults to one in the storage path",
		},
		&cli.BoolFlag{
			Name:  "print",
			Usage: "Print the worksheet instead of storing it",
		},
		&cli.BoolFlag{
			Name:  "csv",
			Usage: "Print the worksheet as CSV",
		},
	},
	Action: syncSheet,
}

func syncSheet(c *cli.Context) error {
	args := positional(c)
	if len(args) == 0 {
		return usageError(c, "missing path to the schedule document")
	}
	l, opts, err := setup(c)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Annotatef(err, "unable to open schedule document")
	}
	defer f.Close()

	sessions, err := sheet.ReadSessions(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if c.Bool("print") || c.Bool("csv") {
		style := table.Rounded
		if c.Bool("csv") {
			style = table.CSV
		}
		w := table.New(os.Stdout, style)
		if err = sheet.Sync(ctx, w, opts.Headers, sessions); err != nil {
			return err
		}
		w.Flush()
		return nil
	}

	db := c.String("db")
	if db == "" {
		p, err := storagePath(c, opts)
		if err != nil {
			return err
		}
		db = filepath.Join(p, sqlite.DefaultFile)
	}
	w, err := sqlite.Open(db)
	if err != nil {
		return err
	}
	defer w.Close()

	if err = sheet.Sync(ctx, w, opts.Headers, sessions); err != nil {
		return errors.Annotatef(err, "worksheet %s was left partially written", db)
	}
	l.WithContext(lw.Ctx{"db": db}).Infof("Synced %d sessions", len(sessions))
	return nil
}
