package cmd

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/ical"
	w "git.sr.ht/~mariusor/wrapper"
)

var ServeCmd = cli.Command{
	Name:  "serve",
	Usage: "Serves the archived schedule as an agenda page, JSON and iCal",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "Set hostname on which to listen to",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Set port on which to listen to",
			Value: 9999,
		},
	},
	Action: serverStart,
}

var wait = 100 * time.Millisecond

func serverStart(c *cli.Context) error {
	l, opts, err := setup(c)
	if err != nil {
		return err
	}
	loc, err := opts.Location()
	if err != nil {
		return err
	}
	file, err := archiveFile(c, opts, l)
	if err != nil {
		return err
	}

	listen := fmt.Sprintf("%s:%d", c.String("host"), c.Int("port"))
	l.Infof("Listening on %s", listen)

	routes := ical.Routes(archive(file, opts, l), ical.Config{
		Version:  AppVersion,
		URL:      fmt.Sprintf("http://%s", listen),
		Days:     opts.Days,
		Location: loc,
		LogFn:    l.Debugf,
		ErrFn:    l.Errorf,
	})

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	// Get start/stop functions for the http server
	srvRun, srvStop := w.HttpServer(w.Handler(routes), w.OnTCP(listen))
	w.RegisterSignalHandlers(w.SignalHandlers{
		syscall.SIGHUP: func(_ chan int) {
			l.Infof("SIGHUP received, the archive is read on every request")
		},
		syscall.SIGINT: func(exit chan int) {
			l.Infof("SIGINT received, stopping")
			exit <- 0
		},
		syscall.SIGTERM: func(exit chan int) {
			l.Infof("SIGTERM received, force stopping")
			exit <- 0
		},
		syscall.SIGQUIT: func(exit chan int) {
			l.Infof("SIGQUIT received, force stopping with core-dump")
			exit <- 0
		},
	}).Exec(func() error {
		if err := srvRun(); err != nil {
			l.Errorf("Error: %s", err)
			return err
		}
		var err error
		// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
		go func(e error) {
			if err = srvStop(ctx); err != nil {
				l.Errorf("Error: %s", err)
			}
		}(err)
		return err
	})

	return nil
}
