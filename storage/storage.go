package storage

import (
	"time"

	"git.sr.ht/~mariusor/schedule/calendar"
)

type DateCursor struct {
	T time.Time
	D time.Duration
}

func Cursor(st time.Time, d time.Duration) DateCursor {
	return DateCursor{
		T: st,
		D: d,
	}
}

type Saver interface {
	SaveSessions(calendar.Sessions) error
}

type Loader interface {
	LoadSessions(DateCursor, ...string) (calendar.Sessions, error)
	LoadSession(string, time.Time, string) calendar.Session
}

type Repository interface {
	Saver
	Loader
}
