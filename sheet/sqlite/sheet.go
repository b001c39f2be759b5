package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"git.sr.ht/~mariusor/schedule/sheet"
)

const DefaultFile = "schedule.sqlite"

var columns = [sheet.Columns]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M"}

var schema = fmt.Sprintf(`create table if not exists worksheet (
	"row" integer primary key,
	%s
);`, strings.Join(columnDefs(), ",\n\t"))

func columnDefs() []string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s text not null default ''", c)
	}
	return defs
}

var insert = fmt.Sprintf(
	`insert into worksheet ("row", %s) values (?%s)`,
	strings.Join(columns[:], ", "),
	strings.Repeat(", ?", len(columns)),
)

type worksheet struct {
	db *sql.DB
}

// Open returns a worksheet stored in the SQLite database at path, creating its table if needed.
func Open(path string) (*worksheet, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open db %s: %w", path, err)
	}
	// every connection to :memory: is a different database
	db.SetMaxOpenConns(1)
	w, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

// New uses db as the worksheet storage.
func New(db *sql.DB) (*worksheet, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("unable to create worksheet table: %w", err)
	}
	return &worksheet{db: db}, nil
}

func (w *worksheet) Close() error {
	return w.db.Close()
}

// Clear removes every row of the worksheet.
func (w *worksheet) Clear(ctx context.Context) error {
	_, err := w.db.ExecContext(ctx, "delete from worksheet")
	return err
}

// Append writes rows after the last row of the worksheet.
// Cells past the last column are dropped.
func (w *worksheet) Append(ctx context.Context, rows ...[]string) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var last int
	if err = tx.QueryRowContext(ctx, `select coalesce(max("row"), 0) from worksheet`).Scan(&last); err != nil {
		return err
	}
	for i, row := range rows {
		args := make([]any, len(columns)+1)
		args[0] = last + i + 1
		for j := range columns {
			args[j+1] = ""
			if j < len(row) {
				args[j+1] = row[j]
			}
		}
		if _, err = tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("unable to insert row %d: %w", last+i+1, err)
		}
	}
	return tx.Commit()
}

// Rows returns the worksheet contents in row order.
func (w *worksheet) Rows(ctx context.Context) ([][]string, error) {
	q := fmt.Sprintf(`select %s from worksheet order by "row"`, strings.Join(columns[:], ", "))
	res, err := w.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	rows := make([][]string, 0)
	for res.Next() {
		row := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err = res.Scan(dest...); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, res.Err()
}
