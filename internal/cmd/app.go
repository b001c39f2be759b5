package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/schedule/internal/config"
	"git.sr.ht/~mariusor/schedule/storage"
	"git.sr.ht/~mariusor/schedule/storage/boltdb"
)

const AppName = "schedule"

var AppVersion = "(unknown)"

var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "The configuration file, a <name>.local.<ext> file next to it overrides its values",
		Value: config.DefaultFile,
	},
	&cli.StringFlag{
		Name:  "path",
		Usage: "The path for storage",
	},
	&cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "Output debug messages",
	},
}

func MkDirIfNotExists(p string) error {
	fi, err := os.Stat(p)
	if err != nil && os.IsNotExist(err) {
		err = os.MkdirAll(p, os.ModeDir|os.ModePerm|0700)
	}
	if err != nil {
		return err
	}
	fi, err = os.Stat(p)
	if err != nil {
		return err
	} else if !fi.IsDir() {
		return errors.Newf("path exists, and is not a folder %s", p)
	}
	return nil
}

// DataPath is the default storage folder, $HOME/.local/share/schedule.
func DataPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// trailingFlags maps the boolean flags that are still recognised when they
// follow a positional argument to their flag name.
var trailingFlags = map[string]string{
	"-v":        "verbose",
	"-verbose":  "verbose",
	"--verbose": "verbose",
	"-save":     "save",
	"--save":    "save",
}

// boolFlag reports if the name flag was set, either where the flag parser
// expects it or anywhere between the positional arguments.
func boolFlag(c *cli.Context, name string) bool {
	if c.Bool(name) || c.GlobalBool(name) {
		return true
	}
	for _, a := range c.Args() {
		if trailingFlags[a] == name {
			return true
		}
	}
	return false
}

func verbose(c *cli.Context) bool {
	return boolFlag(c, "verbose")
}

// positional returns the arguments that are not trailing flags.
func positional(c *cli.Context) []string {
	args := make([]string, 0, len(c.Args()))
	for _, a := range c.Args() {
		if _, ok := trailingFlags[a]; !ok {
			args = append(args, a)
		}
	}
	return args
}

// unknownFlag returns the first argument that looks like a flag.
func unknownFlag(args []string) (string, bool) {
	for _, a := range args {
		if len(a) > 1 && strings.HasPrefix(a, "-") {
			return a, true
		}
	}
	return "", false
}

func newLogger(verbose bool) lw.Logger {
	lvl := lw.WarnLevel
	if verbose {
		lvl = lw.DebugLevel
	}
	return lw.Dev(lw.SetLevel(lvl), lw.SetOutput(os.Stderr))
}

func globalString(c *cli.Context, name string) string {
	if s := c.String(name); s != "" {
		return s
	}
	return c.GlobalString(name)
}

// setup builds the logger and loads the configuration shared by all commands.
func setup(c *cli.Context) (lw.Logger, config.Options, error) {
	l := newLogger(verbose(c))
	opts, err := config.Load(globalString(c, "config"), l.Debugf)
	if err != nil {
		return l, opts, errors.Annotatef(err, "unable to load configuration")
	}
	return l, opts, nil
}

// storagePath is the folder of the archive: the --path flag, the configured
// storage or the default data folder, in this order.
func storagePath(c *cli.Context, opts config.Options) (string, error) {
	p := globalString(c, "path")
	if p == "" {
		p = opts.Storage
	}
	if p == "" {
		p = DataPath()
	}
	if err := MkDirIfNotExists(p); err != nil {
		return "", errors.Annotatef(err, "invalid storage path")
	}
	return p, nil
}

func archiveFile(c *cli.Context, opts config.Options, l lw.Logger) (string, error) {
	p, err := storagePath(c, opts)
	if err != nil {
		return "", err
	}
	file := filepath.Join(p, boltdb.DefaultFile)
	l.WithContext(lw.Ctx{"path": file}).Debugf("Using archive")
	return file, nil
}

func archive(file string, opts config.Options, l lw.Logger) storage.Repository {
	return boltdb.New(boltdb.Config{
		Path:  file,
		Days:  opts.Days,
		LogFn: l.Debugf,
		ErrFn: l.Errorf,
	})
}

func usageError(c *cli.Context, msg string, args ...interface{}) error {
	if c.Command.Name == "" {
		cli.ShowAppHelp(c)
	} else {
		cli.ShowCommandHelp(c, c.Command.Name)
	}
	return errors.Newf(msg, args...)
}
