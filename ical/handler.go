package ical

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"gitlab.com/golang-commonmark/markdown"

	"git.sr.ht/~mariusor/schedule/calendar"
	"git.sr.ht/~mariusor/schedule/storage"
)

type LoggerFn func(string, ...interface{})

type Config struct {
	Version  string
	URL      string
	Name     string
	Days     calendar.DayTable
	Location *time.Location
	LogFn    LoggerFn
	ErrFn    LoggerFn
}

type handler struct {
	repo storage.Loader
	c    Config
	log  LoggerFn
	err  LoggerFn
}

func newHandler(repo storage.Loader, c Config) handler {
	h := handler{
		repo: repo,
		c:    c,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if h.c.Location == nil {
		h.c.Location = time.UTC
	}
	if len(h.c.Days) == 0 {
		h.c.Days = calendar.DefaultDays
	}
	if h.c.Name == "" {
		h.c.Name = DefaultName
	}
	if c.LogFn != nil {
		h.log = c.LogFn
	}
	if c.ErrFn != nil {
		h.err = c.ErrFn
	}
	return h
}

// sessions loads the archived sessions of the configured days, or of the day
// named in the "day" query parameter.
func (h handler) sessions(r *http.Request) (calendar.Sessions, int, error) {
	days := h.c.Days.Names()
	if day := r.URL.Query().Get("day"); day != "" {
		days = days[:0]
		for _, d := range calendar.ValidDays {
			if strings.EqualFold(d, day) {
				days = append(days, d)
			}
		}
		if len(days) == 0 {
			return nil, http.StatusNotFound, fmt.Errorf("invalid day %s", day)
		}
	}
	start, span, err := h.c.Days.Span(h.c.Location)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	sessions, err := h.repo.LoadSessions(storage.Cursor(start, span), days...)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	h.log("Loaded %d sessions for %s", len(sessions), strings.Join(days, ", "))
	return sessions, http.StatusOK, nil
}

func (h handler) fail(w http.ResponseWriter, status int, err error) {
	h.err("Error: %s", err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "%s", err)
}

func (h handler) write(w http.ResponseWriter, typ string, b []byte) {
	w.Header().Set("Content-Type", typ)
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (h handler) ServeICal(w http.ResponseWriter, r *http.Request) {
	sessions, status, err := h.sessions(r)
	if err != nil {
		h.fail(w, status, err)
		return
	}
	b := bytes.Buffer{}
	opts := Options{Version: h.c.Version, URL: h.c.URL, Name: h.c.Name, Location: h.c.Location}
	if err = Encode(&b, sessions, opts); err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.write(w, "text/calendar; charset=utf-8", b.Bytes())
}

func (h handler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	sessions, status, err := h.sessions(r)
	if err != nil {
		h.fail(w, status, err)
		return
	}
	b, err := calendar.Marshal(sessions)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.write(w, "application/json; charset=utf-8", b)
}

func (h handler) ServeAgenda(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.fail(w, http.StatusNotFound, fmt.Errorf("%s not found", r.URL.Path))
		return
	}
	sessions, status, err := h.sessions(r)
	if err != nil {
		h.fail(w, status, err)
		return
	}
	// the agenda holds text scraped from the schedule page, markup in it is not rendered
	md := markdown.New(
		markdown.HTML(false),
		markdown.Tables(true),
		markdown.Linkify(false),
		markdown.Typographer(true),
		markdown.Breaks(true),
	)
	page := strings.Builder{}
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n", html.EscapeString(h.c.Name))
	page.WriteString(md.RenderToString([]byte(Agenda(h.c.Name, sessions, h.c.Location))))
	page.WriteString("</body></html>\n")
	h.write(w, "text/html; charset=utf-8", []byte(page.String()))
}

// Agenda renders sessions as a markdown document with a section per day.
func Agenda(name string, sessions calendar.Sessions, loc *time.Location) string {
	s := strings.Builder{}
	fmt.Fprintf(&s, "# %s\n", name)
	if len(sessions) == 0 {
		s.WriteString("\nNo sessions have been scheduled yet.\n")
		return s.String()
	}
	lastDay := ""
	for _, ses := range sessions {
		start := ses.StartTime.At.In(loc)
		if day := start.Format("Monday, January 2"); day != lastDay {
			fmt.Fprintf(&s, "\n## %s\n\n", day)
			lastDay = day
		}
		fmt.Fprintf(&s, "- **%s–%s** %s", start.Format("15:04"), ses.EndTime.At.In(loc).Format("15:04"), ses.Title)
		if ses.Speaker.Name != "" {
			fmt.Fprintf(&s, ", _%s_", ses.Speaker.Name)
		}
		if ses.Location != "" {
			fmt.Fprintf(&s, " (%s)", ses.Location)
		}
		s.WriteString("\n")
	}
	return s.String()
}
