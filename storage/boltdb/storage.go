package boltdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"git.sr.ht/~mariusor/schedule/calendar"
	"git.sr.ht/~mariusor/schedule/storage"
)

type LoggerFn func(string, ...interface{})

type repo struct {
	d    *bolt.DB
	root []byte
	path string
	days calendar.DayTable
	log  LoggerFn
	err  LoggerFn
}

const (
	rootBucket  = "schedule"
	DefaultFile = "schedule.bdb"
)

// Config
type Config struct {
	Path string
	// Days maps the session dates to the day buckets they are filed under.
	Days  calendar.DayTable
	LogFn LoggerFn
	ErrFn LoggerFn
}

// New returns a new repo repository
func New(c Config) *repo {
	b := repo{
		root: []byte(rootBucket),
		path: c.Path,
		days: c.Days,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.ErrFn != nil {
		b.err = c.ErrFn
	}
	if c.LogFn != nil {
		b.log = c.LogFn
	}
	if len(b.days) == 0 {
		b.days = calendar.DefaultDays
	}

	return &b
}

func (r *repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("could not open db %s %w", r.path, err)
	}
	err = r.d.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(r.root)
		if err != nil {
			return fmt.Errorf("unable to create root bucket %s: %w", r.root, err)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable root bucket %s", r.root)
		}
		return nil
	})
	if err != nil {
		r.close()
	}
	return err
}

// Close closes the boltdb database if possible.
func (r *repo) close() error {
	if r.d == nil {
		return nil
	}
	err := r.d.Close()
	r.d = nil
	return err
}

// LoadSession returns the session with slug that starts at date on day,
// or an empty session if none is stored.
func (r *repo) LoadSession(day string, date time.Time, slug string) calendar.Session {
	sessions, err := r.LoadSessions(storage.Cursor(date, 0), day)
	if err != nil {
		r.err("error loading sessions: %s", err)
	}
	for _, ses := range sessions {
		if ses.Slug() == slug {
			return ses
		}
	}
	return calendar.Session{}
}

// LoadSessions returns the sessions of days that start inside the cursor's interval.
// Without days, all the configured days are loaded.
func (r *repo) LoadSessions(cursor storage.DateCursor, days ...string) (calendar.Sessions, error) {
	if err := r.open(); err != nil {
		return nil, err
	}
	defer r.close()
	if len(days) == 0 {
		days = r.days.Names()
	}
	return loadFromBucket(r.d, r.root, cursor, days...)
}

func cursorBounds(c storage.DateCursor) (time.Time, time.Time) {
	if c.D < 0 {
		return c.T.Add(c.D), c.T
	}
	return c.T, c.T.Add(c.D)
}

func loadFromBucketRecursive(b *bolt.Bucket, filter func(calendar.Session) bool) calendar.Sessions {
	sessions := make(calendar.Sessions, 0)

	c := b.Cursor()
	for key, raw := c.First(); key != nil; key, raw = c.Next() {
		if raw == nil {
			// this is a bucket mate: descend!
			if nb := b.Bucket(key); nb != nil {
				sessions = append(sessions, loadFromBucketRecursive(nb, filter)...)
			}
			continue
		}
		ses, err := loadItem(raw)
		if err != nil {
			continue
		}
		if ses.IsValid() && filter(ses) {
			sessions = append(sessions, ses)
		}
	}

	return sessions
}

func loadFromBucket(db *bolt.DB, root []byte, cursor storage.DateCursor, days ...string) (calendar.Sessions, error) {
	sessions := make(calendar.Sessions, 0)

	min, max := cursorBounds(cursor)
	inInterval := func(s calendar.Session) bool {
		at := s.StartTime.At
		return !at.Before(min) && !at.After(max)
	}

	err := db.View(func(tx *bolt.Tx) error {
		rb := tx.Bucket(root)
		if rb == nil {
			return fmt.Errorf("invalid bucket %s", root)
		}
		for _, day := range days {
			b := rb.Bucket([]byte(day))
			if b == nil {
				continue
			}
			if b = descendToLastCommonBucket(b, min, max); b == nil {
				continue
			}
			sessions = append(sessions, loadFromBucketRecursive(b, inInterval)...)
		}
		return nil
	})

	return sessions, err
}

func loadItem(raw []byte) (calendar.Session, error) {
	ses := calendar.Session{}
	if len(raw) == 0 {
		return ses, fmt.Errorf("empty raw item")
	}
	err := json.Unmarshal(raw, &ses)
	return ses, err
}

var pathSeparator = []byte{'/'}

func datePath(date time.Time) [][]byte {
	date = date.UTC()
	return [][]byte{
		[]byte(date.Format("06")),
		[]byte(date.Format("01")),
		[]byte(date.Format("02")),
		[]byte(date.Format("15")),
		[]byte(date.Format("04")),
	}
}

func itemBucketPath(day string, date time.Time) []byte {
	pathEl := append([][]byte{[]byte(day)}, datePath(date)...)
	return bytes.Join(pathEl, pathSeparator)
}

// descendToLastCommonBucket walks down the date buckets min and max share.
// It returns nil when one of those buckets does not exist.
func descendToLastCommonBucket(b *bolt.Bucket, min, max time.Time) *bolt.Bucket {
	minPieces := datePath(min)
	maxPieces := datePath(max)

	for i, k := range minPieces {
		if !bytes.Equal(k, maxPieces[i]) {
			break
		}
		cb := b.Bucket(k)
		if cb == nil {
			return nil
		}
		b = cb
	}
	return b
}

func descendInBucket(root *bolt.Bucket, path []byte, create bool) (*bolt.Bucket, []byte, error) {
	if root == nil {
		return nil, path, fmt.Errorf("trying to descend into nil bucket")
	}
	if len(path) == 0 {
		return root, path, nil
	}
	buckets := bytes.Split(path, pathSeparator)

	lvl := 0
	b := root
	// descend the bucket tree up to the last found bucket
	for _, name := range buckets {
		lvl++
		if len(name) == 0 {
			continue
		}
		if b == nil {
			return root, path, fmt.Errorf("trying to load from nil bucket")
		}
		var cb *bolt.Bucket
		if create {
			var err error
			if cb, err = b.CreateBucketIfNotExists(name); err != nil {
				return b, path, err
			}
		} else {
			cb = b.Bucket(name)
		}
		if cb == nil {
			lvl--
			break
		}
		b = cb
	}
	path = bytes.Join(buckets[lvl:], pathSeparator)

	return b, path, nil
}

// SaveSessions
func (r *repo) SaveSessions(sessions calendar.Sessions) error {
	var err error
	if err = r.open(); err != nil {
		return err
	}
	defer r.close()

	for _, ses := range sessions {
		if err1 := save(r, ses); err1 != nil {
			r.err("Error saving session %q: %s", ses.Title, err1)
			err = err1
			continue
		}
		r.log("Saved %s", ses)
	}
	return err
}

func save(r *repo, ses calendar.Session) error {
	if !ses.IsValid() {
		return fmt.Errorf("invalid session %s", ses)
	}
	if !ses.StartTime.Anchored() {
		return fmt.Errorf("session %q is not anchored to a date", ses.Title)
	}
	day, ok := r.days.DayOf(ses.StartTime.At)
	if !ok {
		return fmt.Errorf("session %q starts on %s, which is not a configured day", ses.Title, ses.StartTime.At.Format("2006-01-02"))
	}
	path := itemBucketPath(day, ses.StartTime.At)

	return r.d.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable bucket %s", r.root)
		}
		b, path, err := descendInBucket(root, path, true)
		if err != nil {
			return fmt.Errorf("unable to find %s in root bucket: %w", path, err)
		}
		if !b.Writable() {
			return fmt.Errorf("non writeable bucket %s", path)
		}
		entryBytes, err := json.Marshal(ses)
		if err != nil {
			return fmt.Errorf("could not marshal object: %w", err)
		}
		if err = b.Put([]byte(ses.Slug()), entryBytes); err != nil {
			return fmt.Errorf("could not store encoded object: %w", err)
		}
		return nil
	})
}
