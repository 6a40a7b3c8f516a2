package timetracking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAlreadyClockedIn = errors.New("timetracking: already clocked in")
	ErrNotClockedIn     = errors.New("timetracking: not clocked in")
	ErrInvalidAction    = errors.New("timetracking: invalid action")
)

const historyWindow = 7 * 24 * time.Hour

type Service struct {
	Store *Store
	Now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Status reports the latest entry for today, defaulting to clocked out when
// the employee has not clocked in yet.
func (s *Service) Status(ctx context.Context, employeeID int64) (TimeEntry, error) {
	today := midnight(s.Now().UTC())
	entry, found, err := s.Store.LatestForDay(ctx, employeeID, today)
	if err != nil {
		return TimeEntry{}, err
	}
	if !found {
		return TimeEntry{Status: StatusOut}, nil
	}
	return entry, nil
}

// Clock applies the "in" or "out" action, enforcing a single open entry per
// employee per day.
func (s *Service) Clock(ctx context.Context, employeeID int64, action string) (TimeEntry, error) {
	now := s.Now().UTC()
	today := midnight(now)

	open, found, err := s.Store.OpenForDay(ctx, employeeID, today)
	if err != nil {
		return TimeEntry{}, err
	}

	switch action {
	case "in":
		if found {
			return TimeEntry{}, ErrAlreadyClockedIn
		}
		return s.Store.Insert(ctx, employeeID, today, now)
	case "out":
		if !found {
			return TimeEntry{}, ErrNotClockedIn
		}
		return s.Store.Close(ctx, open.ID, now)
	default:
		return TimeEntry{}, ErrInvalidAction
	}
}

// History returns the rolling last-7-day entries in wall-clock form.
func (s *Service) History(ctx context.Context, employeeID int64) ([]HistoryEntry, error) {
	since := midnight(s.Now().UTC().Add(-historyWindow))
	entries, err := s.Store.HistorySince(ctx, employeeID, since)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		item := HistoryEntry{Date: entry.Date}
		timeIn := entry.TimeIn.Format("15:04:05")
		item.TimeIn = &timeIn
		if entry.TimeOut != nil {
			timeOut := entry.TimeOut.Format("15:04:05")
			item.TimeOut = &timeOut
		}
		history = append(history, item)
	}
	return history, nil
}
