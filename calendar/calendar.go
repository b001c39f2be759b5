package calendar

import (
	"fmt"
	"strings"
	"time"

	"git.sr.ht/~mariusor/tagextractor"
)

const (
	LabelThursday = "Thursday"
	LabelFriday   = "Friday"
	LabelSaturday = "Saturday"
)

// ValidDays are the conference days, in the order they are emitted.
var ValidDays = [...]string{
	LabelThursday,
	LabelFriday,
	LabelSaturday,
}

// DefaultZone is the zone all session times are anchored in.
const DefaultZone = "America/New_York"

// DayDate pairs a day section of the page with its calendar date.
type DayDate struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// DayTable is the ordered day-to-date configuration table.
type DayTable []DayDate

var DefaultDays = DayTable{
	{Name: LabelThursday, Date: "2016-08-18"},
	{Name: LabelFriday, Date: "2016-08-19"},
	{Name: LabelSaturday, Date: "2016-08-20"},
}

const dateFmt = "2006-01-02"

// Names returns the day names in table order.
func (t DayTable) Names() []string {
	names := make([]string, len(t))
	for i, d := range t {
		names[i] = d.Name
	}
	return names
}

// Date returns the calendar date configured for day at midnight in loc.
func (t DayTable) Date(day string, loc *time.Location) (time.Time, error) {
	for _, d := range t {
		if !strings.EqualFold(d.Name, day) {
			continue
		}
		date, err := time.ParseInLocation(dateFmt, d.Date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q for %s: %w", d.Date, d.Name, err)
		}
		return date, nil
	}
	return time.Time{}, fmt.Errorf("no date configured for %s", day)
}

// DayOf returns the name of the day configured for the calendar date of at,
// in at's location.
func (t DayTable) DayOf(at time.Time) (string, bool) {
	if at.IsZero() {
		return "", false
	}
	date := at.Format(dateFmt)
	for _, d := range t {
		if d.Date == date {
			return d.Name, true
		}
	}
	return "", false
}

// Span returns the first date of the table and the duration that covers all its days.
func (t DayTable) Span(loc *time.Location) (time.Time, time.Duration, error) {
	var first, last time.Time
	for _, d := range t {
		date, err := t.Date(d.Name, loc)
		if err != nil {
			return time.Time{}, 0, err
		}
		if first.IsZero() || date.Before(first) {
			first = date
		}
		if last.IsZero() || date.After(last) {
			last = date
		}
	}
	if first.IsZero() {
		return first, 0, fmt.Errorf("empty day table")
	}
	return first, last.Add(24*time.Hour - time.Second).Sub(first), nil
}

// ValidDay reports whether typ is one of the known conference days.
func ValidDay(typ string) bool {
	for _, d := range ValidDays {
		if strings.EqualFold(typ, d) {
			return true
		}
	}
	return false
}

// Speaker is the person presenting a session.
// The field order is the lexicographic order of the JSON keys.
type Speaker struct {
	Bio   Bio     `json:"bio"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}

// Session is one scheduled talk.
// The field order is the lexicographic order of the JSON keys.
type Session struct {
	Description string  `json:"description"`
	EndTime     Moment  `json:"end_time"`
	Location    string  `json:"location"`
	Speaker     Speaker `json:"speaker"`
	StartTime   Moment  `json:"start_time"`
	Title       string  `json:"title"`
}

type Sessions []Session

func (s Session) IsValid() bool {
	return s.Title != "" && s.Speaker.Name != ""
}

// Slug is the normalized title of the session, used as its storage key.
func (s Session) Slug() string {
	if slug := tagextractor.TagNormalize(s.Title); slug != "" {
		return slug
	}
	return strings.ToLower(strings.Join(strings.Fields(s.Title), "-"))
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s Session) Equals(other Session) bool {
	return s.Title == other.Title &&
		s.StartTime.Equal(other.StartTime) &&
		s.EndTime.Equal(other.EndTime) &&
		s.Speaker.Name == other.Speaker.Name &&
		s.Speaker.Bio.Equals(other.Speaker.Bio) &&
		stringPtrEqual(s.Speaker.Photo, other.Speaker.Photo) &&
		s.Description == other.Description &&
		s.Location == other.Location
}

// Duration is the length of the session, zero when the end precedes the start.
func (s Session) Duration() time.Duration {
	d := s.EndTime.Clock.Sub(s.StartTime.Clock)
	if d < 0 {
		return 0
	}
	return d
}

func (s Session) String() string {
	return s.GoString()
}

func (s Session) GoString() string {
	loc := ""
	if s.Location != "" {
		loc = " @ " + s.Location
	}
	return fmt.Sprintf("<[%s-%s] %s: %s%s>", s.StartTime, s.EndTime, s.Speaker.Name, s.Title, loc)
}

func (s Sessions) String() string {
	return s.GoString()
}

func (s Sessions) GoString() string {
	ss := make([]string, len(s))
	for i, ev := range s {
		ss[i] = ev.GoString()
	}
	return fmt.Sprintf("Sessions[%d]:\n\t%s\n", len(s), strings.Join(ss, "\n\t"))
}

// Anchor combines every session in s with date.
func (s Sessions) Anchor(date time.Time) Sessions {
	result := make(Sessions, len(s))
	for i, ses := range s {
		result[i] = Combine(ses, date)
	}
	return result
}
