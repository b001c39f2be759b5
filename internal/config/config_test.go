package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~mariusor/schedule/calendar"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoadDefaults(t *testing.T) {
	opts, err := Load("", nil)
	require.NoError(t, err)
	if d := cmp.Diff(Default(), opts); d != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", d)
	}

	opts, err = Load(filepath.Join(t.TempDir(), DefaultFile), nil)
	require.NoError(t, err)
	require.Equal(t, calendar.DefaultDays, opts.Days)
	require.Equal(t, "http://abstractions.io", opts.PhotoBase())
}

func TestLoadLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, DefaultFile)
	write(t, name, `{
		// conference of the following year
		timezone: "America/New_York",
		baseURL: "https://abstractions.io",
		days: [
			{name: "Thursday", date: "2017-08-17"},
			{name: "Friday", date: "2017-08-18"},
		],
	}`)
	write(t, LocalPath(name), `{storage: "/tmp/schedule", relativePhotos: true,}`)

	var logged []string
	opts, err := Load(name, func(s string, args ...interface{}) {
		logged = append(logged, s)
	})
	require.NoError(t, err)
	require.Len(t, logged, 2)

	require.Equal(t, "/tmp/schedule", opts.Storage)
	require.Equal(t, "https://abstractions.io", opts.BaseURL)
	require.Empty(t, opts.PhotoBase())
	require.Equal(t, []string{calendar.LabelThursday, calendar.LabelFriday}, opts.Days.Names())
	require.Equal(t, Default().Headers, opts.Headers)
}

func TestLoadLocalDisablesRelativePhotos(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, DefaultFile)
	write(t, name, `{baseURL: "https://abstractions.io", relativePhotos: true, storage: "/var/lib/schedule"}`)

	opts, err := Load(name, nil)
	require.NoError(t, err)
	require.Empty(t, opts.PhotoBase())

	write(t, LocalPath(name), `{relativePhotos: false}`)
	opts, err = Load(name, nil)
	require.NoError(t, err)
	require.NotNil(t, opts.RelativePhotos)
	require.False(t, *opts.RelativePhotos)
	require.Equal(t, "https://abstractions.io", opts.PhotoBase())
	require.Equal(t, "/var/lib/schedule", opts.Storage)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":   `{days: [`,
		"day":      `{days: [{name: "Sunday", date: "2016-08-21"}]}`,
		"date":     `{days: [{name: "Friday", date: "19/08/2016"}]}`,
		"timezone": `{timezone: "Mars/Olympus_Mons"}`,
		"headers":  `{headers: ["Start Date", "End date"]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFile)
			write(t, path, content)
			_, err := Load(path, nil)
			require.Error(t, err)
		})
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("etc", "schedule.local.json5"), LocalPath(filepath.Join("etc", "schedule.json5")))
}
