package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/internal/cmd"
)

var version = "(unknown)"

func main() {
	var err error

	// -v is the verbose flag
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
	cmd.AppVersion = version

	app := cli.App{
		Name:      cmd.AppName,
		Usage:     "Extracts the conference schedule out of its HTML page",
		UsageText: fmt.Sprintf("%s [--save] <path-to-html> [--verbose|-v]", cmd.AppName),
		Version:   version,
		Flags:     append(cmd.GlobalFlags, cmd.ParseFlags...),
		Action:    cmd.Parse,
		Commands: []cli.Command{
			cmd.SyncCmd,
			cmd.ListCmd,
			cmd.DaysCmd,
			cmd.ServeCmd,
		},
	}

	err = app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
