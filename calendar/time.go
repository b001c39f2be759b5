package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	// the zone table is embedded so anchoring does not depend on the host's zoneinfo
	_ "time/tzdata"
)

// TimeOfDay is a wall clock time with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

const clockFmt = "15:04"

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s+([AaPp][Mm])$`)

// ParseTime parses a 12-hour clock string like "9:00 AM" or "09:30 pm".
func ParseTime(s string) (TimeOfDay, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, &MalformedTimeError{Value: s}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return TimeOfDay{}, &MalformedTimeError{Value: s}
	}
	hour = hour % 12
	if strings.EqualFold(m[3], "pm") {
		hour += 12
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Sub returns the duration t-u.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(t.minutes()-u.minutes()) * time.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Moment is a session time: always a clock reading, optionally anchored
// to a calendar date in a time zone.
type Moment struct {
	Clock TimeOfDay
	At    time.Time
}

// Bare returns a Moment that is not anchored to any date.
func Bare(t TimeOfDay) Moment {
	return Moment{Clock: t}
}

func (m Moment) Anchored() bool {
	return !m.At.IsZero()
}

func (m Moment) Equal(o Moment) bool {
	return m.Clock == o.Clock && m.At.Equal(o.At)
}

func (m Moment) String() string {
	if m.Anchored() {
		return m.At.Format("2006-01-02 15:04 MST")
	}
	return m.Clock.String()
}

// ISO renders anchored moments in ISO-8601 with offset and bare ones as HH:MM.
func (m Moment) ISO() string {
	if m.Anchored() {
		return m.At.Format(time.RFC3339)
	}
	return m.Clock.String()
}

func (m Moment) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ISO())
}

func (m *Moment) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if at, err := time.Parse(time.RFC3339, s); err == nil {
		m.At = at
		m.Clock = TimeOfDay{Hour: at.Hour(), Minute: at.Minute()}
		return nil
	}
	clock, err := time.Parse(clockFmt, s)
	if err != nil {
		return &MalformedTimeError{Value: s}
	}
	m.At = time.Time{}
	m.Clock = TimeOfDay{Hour: clock.Hour(), Minute: clock.Minute()}
	return nil
}

// Anchor places the clock reading of m on date, in date's location.
func (m Moment) Anchor(date time.Time) Moment {
	return Moment{
		Clock: m.Clock,
		At:    time.Date(date.Year(), date.Month(), date.Day(), m.Clock.Hour, m.Clock.Minute, 0, 0, date.Location()),
	}
}

// Combine returns s with its start and end times anchored to date.
func Combine(s Session, date time.Time) Session {
	s.StartTime = s.StartTime.Anchor(date)
	s.EndTime = s.EndTime.Anchor(date)
	return s
}

// LoadZone resolves a zone name, falling back to DefaultZone when empty.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unable to load time zone %s: %w", name, err)
	}
	return loc, nil
}
