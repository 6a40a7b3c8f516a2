package timetracking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const entryColumns = "id, employee_id, entry_date, time_in, time_out, status"

func scanEntry(row pgx.Row) (TimeEntry, bool, error) {
	var entry TimeEntry
	var day time.Time
	err := row.Scan(&entry.ID, &entry.EmployeeID, &day, &entry.TimeIn, &entry.TimeOut, &entry.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeEntry{}, false, nil
	}
	if err != nil {
		return TimeEntry{}, false, err
	}
	entry.Date = day.Format("2006-01-02")
	return entry, true, nil
}

// LatestForDay returns the most recently created entry for the day, if any.
func (s *Store) LatestForDay(ctx context.Context, employeeID int64, day time.Time) (TimeEntry, bool, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM time_entries
    WHERE employee_id = $1 AND entry_date = $2
    ORDER BY created_at DESC
    LIMIT 1
  `, employeeID, day))
}

// OpenForDay returns the day's still-clocked-in entry, if any.
func (s *Store) OpenForDay(ctx context.Context, employeeID int64, day time.Time) (TimeEntry, bool, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM time_entries
    WHERE employee_id = $1 AND entry_date = $2 AND status = $3
    LIMIT 1
  `, employeeID, day, StatusIn))
}

func (s *Store) Insert(ctx context.Context, employeeID int64, day time.Time, timeIn time.Time) (TimeEntry, error) {
	entry, _, err := scanEntry(s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (employee_id, entry_date, time_in, status)
    VALUES ($1,$2,$3,$4)
    RETURNING `+entryColumns+`
  `, employeeID, day, timeIn, StatusIn))
	return entry, err
}

func (s *Store) Close(ctx context.Context, entryID int64, timeOut time.Time) (TimeEntry, error) {
	entry, _, err := scanEntry(s.DB.QueryRow(ctx, `
    UPDATE time_entries
    SET time_out = $1, status = $2
    WHERE id = $3
    RETURNING `+entryColumns+`
  `, timeOut, StatusOut, entryID))
	return entry, err
}

func (s *Store) HistorySince(ctx context.Context, employeeID int64, since time.Time) ([]TimeEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM time_entries
    WHERE employee_id = $1 AND entry_date >= $2
    ORDER BY entry_date DESC
  `, employeeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []TimeEntry{}
	for rows.Next() {
		entry, _, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
