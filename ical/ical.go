package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soh335/ical"

	"git.sr.ht/~mariusor/schedule/calendar"
)

type Options struct {
	Version  string
	URL      string
	Name     string
	Location *time.Location
	// Stamp is the DTSTAMP of all the events, the current time when zero.
	Stamp time.Time
}

const DefaultName = "Abstractions"

// UID identifies ses across exports of the same schedule.
func UID(base string, ses calendar.Session) string {
	name := fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), ses.Slug(), ses.StartTime.ISO())
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func summary(ses calendar.Session) string {
	if ses.Speaker.Name == "" {
		return ses.Title
	}
	return fmt.Sprintf("%s (%s)", ses.Title, ses.Speaker.Name)
}

func description(ses calendar.Session) string {
	if ses.Location == "" {
		return ses.Description
	}
	return fmt.Sprintf("%s\n\n%s", ses.Description, ses.Location)
}

// Encode writes the anchored sessions as a VCALENDAR. Sessions without a date are skipped.
func Encode(w io.Writer, sessions calendar.Sessions, o Options) error {
	loc := o.Location
	if loc == nil {
		loc = time.UTC
	}
	stamp := o.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	name := o.Name
	if name == "" {
		name = DefaultName
	}

	cal := ical.NewBasicVCalendar()
	cal.PRODID = fmt.Sprintf("-//Abstractions//SCHEDULE//EN/%s", o.Version)
	cal.VERSION = "2.0"
	cal.URL = o.URL

	cal.NAME = name
	cal.X_WR_CALNAME = name
	desc := fmt.Sprintf("%s conference schedule", name)
	cal.DESCRIPTION = desc
	cal.X_WR_CALDESC = desc

	tz := loc.String()
	cal.TIMEZONE_ID = tz
	cal.X_WR_TIMEZONE = tz

	cal.REFRESH_INTERVAL = "PT1H"
	cal.X_PUBLISHED_TTL = "PT1H"
	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	for _, ses := range sessions {
		if !ses.StartTime.Anchored() {
			continue
		}
		end := ses.EndTime.At
		if !ses.EndTime.Anchored() {
			end = ses.StartTime.At.Add(ses.Duration())
		}
		e := &ical.VEvent{
			UID:         UID(o.URL, ses),
			DTSTAMP:     stamp.In(loc),
			DTSTART:     ses.StartTime.At.In(loc),
			DTEND:       end.In(loc),
			SUMMARY:     summary(ses),
			DESCRIPTION: description(ses),
			TZID:        tz,
		}
		cal.VComponent = append(cal.VComponent, e)
	}

	return cal.Encode(w)
}
