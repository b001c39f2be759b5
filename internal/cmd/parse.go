package cmd

import (
	"io"
	"os"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/calendar"
	"git.sr.ht/~mariusor/schedule/calendar/abstractions"
	"git.sr.ht/~mariusor/schedule/internal/config"
)

var ParseFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "save",
		Usage: "Archive the parsed sessions",
	},
}

// Parse extracts the sessions of the schedule page passed as the first
// argument and prints them as JSON. Nothing is printed when extraction fails.
func Parse(c *cli.Context) error {
	args := positional(c)
	if len(args) == 0 {
		return usageError(c, "missing path to the schedule page")
	}
	if f, ok := unknownFlag(args); ok {
		return usageError(c, "unknown flag %s", f)
	}
	l, opts, err := setup(c)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return errors.Annotatef(err, "unable to open schedule page")
	}
	defer f.Close()

	sessions, err := ParseSchedule(f, opts, l)
	if err != nil {
		return err
	}
	l.WithContext(lw.Ctx{"file": args[0]}).Debugf("Loaded %d sessions", len(sessions))

	b, err := calendar.Marshal(sessions)
	if err != nil {
		return err
	}
	if _, err = os.Stdout.Write(b); err != nil {
		return err
	}

	if !boolFlag(c, "save") {
		return nil
	}
	file, err := archiveFile(c, opts, l)
	if err != nil {
		return err
	}
	if err = archive(file, opts, l).SaveSessions(sessions); err != nil {
		return errors.Annotatef(err, "unable to archive sessions")
	}
	return nil
}

// ParseSchedule runs the extraction pipeline over the page in r.
func ParseSchedule(r io.Reader, opts config.Options, l lw.Logger) (calendar.Sessions, error) {
	loc, err := opts.Location()
	if err != nil {
		return nil, err
	}
	p, err := abstractions.New(abstractions.Config{
		BaseURL: opts.PhotoBase(),
		LogFn:   l.Infof,
		ErrFn:   l.Errorf,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "invalid base URL")
	}
	doc, err := abstractions.LoadDocument(r)
	if err != nil {
		return nil, err
	}
	return p.LoadSchedule(doc, opts.Days, loc)
}
