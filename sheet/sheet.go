package sheet

import (
	"context"
	"fmt"
	"io"

	"git.sr.ht/~mariusor/schedule/calendar"
)

// Headers is the first row of the worksheet.
// The blank columns are reserved for manual annotations by the organizers.
var Headers = []string{
	"Start Date", "End date", "Title",
	"", "", "", "", "", "",
	"Location", "Speaker", "Speaker Image URL", "Description",
}

// Columns is the width of a worksheet row.
const Columns = 13

const (
	colStart       = 0
	colEnd         = 1
	colTitle       = 2
	colLocation    = 9
	colSpeaker     = 10
	colSpeakerImg  = 11
	colDescription = 12
)

// Sheet is a remote worksheet that can only be emptied and appended to.
type Sheet interface {
	Clear(context.Context) error
	Append(context.Context, ...[]string) error
}

// Row renders ses in the worksheet layout.
func Row(ses calendar.Session) []string {
	row := make([]string, Columns)
	row[colStart] = ses.StartTime.ISO()
	row[colEnd] = ses.EndTime.ISO()
	row[colTitle] = ses.Title
	row[colLocation] = ses.Location
	row[colSpeaker] = ses.Speaker.Name
	if ses.Speaker.Photo != nil {
		row[colSpeakerImg] = *ses.Speaker.Photo
	}
	row[colDescription] = ses.Description
	return row
}

// Sync replaces the contents of s with the headers followed by one row per session.
// A failure part way through leaves the worksheet partially written.
func Sync(ctx context.Context, s Sheet, headers []string, sessions calendar.Sessions) error {
	if len(headers) == 0 {
		headers = Headers
	}
	if err := s.Clear(ctx); err != nil {
		return fmt.Errorf("unable to clear sheet: %w", err)
	}
	if err := s.Append(ctx, headers); err != nil {
		return fmt.Errorf("unable to write headers: %w", err)
	}
	rows := make([][]string, 0, len(sessions))
	for _, ses := range sessions {
		rows = append(rows, Row(ses))
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.Append(ctx, rows...); err != nil {
		return fmt.Errorf("unable to write %d sessions: %w", len(rows), err)
	}
	return nil
}

// ReadSessions decodes a schedule document as written by the extractor.
func ReadSessions(r io.Reader) (calendar.Sessions, error) {
	sessions, err := calendar.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule document: %w", err)
	}
	return sessions, nil
}
