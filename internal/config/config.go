package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/go-ap/errors"
	"github.com/titanous/json5"

	"git.sr.ht/~mariusor/schedule/calendar"
	"git.sr.ht/~mariusor/schedule/calendar/abstractions"
	"git.sr.ht/~mariusor/schedule/sheet"
)

const DefaultFile = "schedule.json5"

type Options struct {
	Timezone string            `json:"timezone"`
	BaseURL  string            `json:"baseURL"`
	Days     calendar.DayTable `json:"days"`
	Headers  []string          `json:"headers"`
	Storage  string            `json:"storage"`

	// RelativePhotos keeps speaker photo URLs as they appear in the page.
	// It is a pointer so that a local file can switch it back off.
	RelativePhotos *bool `json:"relativePhotos"`
}

// Default is the configuration of the 2016 conference.
func Default() Options {
	return Options{
		Timezone: calendar.DefaultZone,
		BaseURL:  abstractions.DefaultBaseURL,
		Days:     append(calendar.DayTable(nil), calendar.DefaultDays...),
		Headers:  append([]string(nil), sheet.Headers...),
	}
}

// Location resolves the configured time zone.
func (o Options) Location() (*time.Location, error) {
	return calendar.LoadZone(o.Timezone)
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// PhotoBase is the origin speaker photos are resolved against, empty when they stay relative.
func (o Options) PhotoBase() string {
	if o.RelativePhotos != nil && *o.RelativePhotos {
		return ""
	}
	return o.BaseURL
}

// LocalPath returns the <name>.local.<ext> sibling of name.
func LocalPath(name string) string {
	prefix, ext := splitExt(filepath.Base(name))
	return filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefix, ext))
}

func readFile(name string) (Options, bool, error) {
	var out Options
	raw, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return out, false, nil
		}
		return out, false, errors.Annotatef(err, "unable to read %s", name)
	}
	if len(raw) == 0 {
		return out, true, nil
	}
	if err = json5.Unmarshal(raw, &out); err != nil {
		return out, true, errors.Annotatef(err, "invalid configuration in %s", name)
	}
	return out, true, nil
}

// Load reads the configuration in name and overrides it with the values of its
// local sibling. Values that neither file sets are taken from Default.
// An empty name, or missing files, result in the default configuration.
func Load(name string, logFn func(string, ...interface{})) (Options, error) {
	out := Default()
	if name == "" {
		return out, nil
	}
	if logFn == nil {
		logFn = func(string, ...interface{}) {}
	}

	for _, path := range []string{name, LocalPath(name)} {
		opts, found, err := readFile(path)
		if err != nil {
			return out, err
		}
		if !found {
			continue
		}
		if err = mergo.Merge(&out, opts, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return out, errors.Annotatef(err, "unable to merge %s", path)
		}
		logFn("Loaded configuration from %s", path)
	}
	return out, out.Validate()
}

// Validate checks that the days are known and their dates are usable.
func (o Options) Validate() error {
	loc, err := o.Location()
	if err != nil {
		return errors.Annotatef(err, "invalid timezone")
	}
	if len(o.Days) == 0 {
		return errors.Newf("no days configured")
	}
	for _, d := range o.Days {
		if !calendar.ValidDay(d.Name) {
			return errors.Newf("invalid day %q, expected one of %v", d.Name, calendar.ValidDays)
		}
		if _, err = o.Days.Date(d.Name, loc); err != nil {
			return errors.Annotatef(err, "invalid day table")
		}
	}
	if l := len(o.Headers); l > 0 && l != sheet.Columns {
		return errors.Newf("invalid headers, expected %d columns, got %d", sheet.Columns, l)
	}
	return nil
}
