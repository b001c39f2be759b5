package abstractions

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"git.sr.ht/~mariusor/schedule/calendar"
)

type LoggerFn func(string, ...interface{})

// Config
type Config struct {
	// BaseURL is the origin speaker photos are resolved against.
	// When empty the photo references are kept as they appear in the page.
	BaseURL string
	LogFn   LoggerFn
	ErrFn   LoggerFn
}

type parser struct {
	base *url.URL
	log  LoggerFn
	err  LoggerFn
}

// New returns a schedule page parser.
func New(c Config) (*parser, error) {
	base, err := parseBaseURL(c.BaseURL)
	if err != nil {
		return nil, err
	}
	p := parser{
		base: base,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.LogFn != nil {
		p.log = c.LogFn
	}
	if c.ErrFn != nil {
		p.err = c.ErrFn
	}
	return &p, nil
}

// LoadDocument parses the schedule page.
func LoadDocument(r io.Reader) (*goquery.Document, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reader received")
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse schedule page: %w", err)
	}
	return doc, nil
}

// LoadSchedule extracts the sessions of every day in the table, anchors them
// to the day's date in loc and returns them day after day, in document order.
func (p parser) LoadSchedule(doc *goquery.Document, days calendar.DayTable, loc *time.Location) (calendar.Sessions, error) {
	sections, err := p.FindDays(doc, days.Names()...)
	if err != nil {
		return nil, err
	}
	schedule := make(calendar.Sessions, 0)
	for _, day := range days {
		date, err := days.Date(day.Name, loc)
		if err != nil {
			return nil, err
		}
		sessions, err := p.LoadSessions(sections[day.Name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day.Name, err)
		}
		schedule = append(schedule, sessions.Anchor(date)...)
	}
	return schedule, nil
}

// LoadDays extracts the sessions of each day without anchoring them to a date.
func (p parser) LoadDays(doc *goquery.Document, days ...string) (map[string]calendar.Sessions, error) {
	sections, err := p.FindDays(doc, days...)
	if err != nil {
		return nil, err
	}
	result := make(map[string]calendar.Sessions, len(sections))
	for day, section := range sections {
		sessions, err := p.LoadSessions(section)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		result[day] = sessions
	}
	return result, nil
}

// FindDays locates the section of every day, identified by an id equal to the day name.
func (p parser) FindDays(doc *goquery.Document, days ...string) (map[string]*goquery.Selection, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document received")
	}
	sections := make(map[string]*goquery.Selection, len(days))
	for _, day := range days {
		s := doc.Find(daySelector(day)).First()
		if s.Length() == 0 {
			return nil, &calendar.MissingSectionError{Day: day}
		}
		sections[day] = s
	}
	return sections, nil
}

// LoadSessions extracts all sessions of a day section in document order.
func (p parser) LoadSessions(section *goquery.Selection) (calendar.Sessions, error) {
	sessions := make(calendar.Sessions, 0)
	if section == nil {
		return sessions, nil
	}
	var err error
	section.Find(selSession).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var ses calendar.Session
		if ses, err = p.LoadSession(s); err != nil {
			err = fmt.Errorf("session #%d: %w", i, err)
			return false
		}
		sessions = append(sessions, ses)
		return true
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// LoadSession extracts one session out of its modal block.
func (p parser) LoadSession(s *goquery.Selection) (calendar.Session, error) {
	ses := calendar.Session{}

	title, err := requiredText(s, "title", selTitle)
	if err != nil {
		return ses, err
	}
	ses.Title = title

	start, err := requiredText(s, "start time", selStartTime)
	if err != nil {
		return ses, err
	}
	startTime, err := calendar.ParseTime(start)
	if err != nil {
		return ses, err
	}
	ses.StartTime = calendar.Bare(startTime)

	end, err := requiredText(s, "end time", selEndTime)
	if err != nil {
		return ses, err
	}
	endTime, err := calendar.ParseTime(stripTimeDelimiter(end))
	if err != nil {
		return ses, err
	}
	ses.EndTime = calendar.Bare(endTime)

	name, err := requiredText(s, "speaker", selSpeaker)
	if err != nil {
		return ses, err
	}
	ses.Speaker.Name = name
	ses.Speaker.Bio = p.loadBio(s, name)
	ses.Speaker.Photo = p.loadPhoto(s, name)

	if ses.Description, err = loadDescription(s, title); err != nil {
		return ses, err
	}
	if ses.Location, err = loadLocation(s); err != nil {
		return ses, err
	}
	return ses, nil
}

func (p parser) loadBio(s *goquery.Selection, name string) calendar.Bio {
	bio := s.Find(selBio).First()
	if bio.Length() == 0 {
		bio = s.Find(selBioNoImage).First()
	}
	if bio.Length() == 0 {
		p.log("%s does not have a bio", name)
		return calendar.Bio{}
	}

	paragraphs := make([]string, 0)
	bio.Find("p").Each(func(i int, s *goquery.Selection) {
		if t := cleanText(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	paragraphs = removeFirst(paragraphs, aboutTheSpeaker)

	switch len(paragraphs) {
	case 0:
		p.log("%s does not have a bio", name)
	case 1:
	default:
		p.log("%s has more than 1 paragraph of bio", name)
	}
	return calendar.NewBio(paragraphs...)
}

func (p parser) loadPhoto(s *goquery.Selection, name string) *string {
	if src, ok := s.Find(selBio).First().Find(selPhoto).First().Attr("src"); ok {
		if strings.TrimSpace(src) != "" && !strings.Contains(src, photoSentinel) {
			photo, err := photoURL(p.base, src)
			if err == nil {
				return &photo
			}
			p.err("Speaker %s has an invalid photo: %s", name, err)
		}
	}
	p.log("Speaker %s does not have a photo", name)
	return nil
}

func loadDescription(s *goquery.Selection, title string) (string, error) {
	info := s.Find(selInformation).First()
	if info.Length() == 0 {
		return "", &calendar.MissingFieldError{Field: "description", Selector: selInformation}
	}
	paragraphs := make([]string, 0, 1)
	info.Find("*").Each(func(i int, s *goquery.Selection) {
		if t := cleanText(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	if len(paragraphs) != 1 {
		return "", &calendar.DescriptionCardinalityError{Title: title, Count: len(paragraphs)}
	}
	return paragraphs[0], nil
}

// loadLocation reads the location out of the time paragraph, where it trails
// the start and end times after a comma.
func loadLocation(s *goquery.Selection) (string, error) {
	tp := s.Find(selTime).First()
	if tp.Length() == 0 {
		return "", &calendar.MissingFieldError{Field: "location", Selector: selTime}
	}
	raw := strings.Builder{}
	tp.Contents().Each(func(i int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			raw.WriteString(s.Text())
		}
	})
	loc := raw.String()
	if idx := strings.Index(loc, ","); idx >= 0 {
		loc = loc[idx+1:]
	}
	return cleanText(loc), nil
}

func requiredText(s *goquery.Selection, field, selector string) (string, error) {
	sel := s.Find(selector).First()
	if sel.Length() == 0 {
		return "", &calendar.MissingFieldError{Field: field, Selector: selector}
	}
	t := cleanText(sel.Text())
	if t == "" {
		return "", &calendar.MissingFieldError{Field: field, Selector: selector}
	}
	return t, nil
}

// stripTimeDelimiter drops the dash and spacing the end time is prefixed with.
func stripTimeDelimiter(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

func removeFirst(sl []string, v string) []string {
	for i, s := range sl {
		if s == v {
			return append(sl[:i], sl[i+1:]...)
		}
	}
	return sl
}
