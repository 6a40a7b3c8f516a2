// Package reports aggregates headline figures across the whole directory.
package reports

import (
	"context"
	"fmt"
	"time"

	"ems/internal/platform/db"
)

type Stats struct {
	TotalEmployees int    `json:"totalEmployees"`
	NewHires       int    `json:"newHires"`
	AttendanceRate string `json:"attendanceRate"`
	Managers       int    `json:"managers"`
}

type Counts struct {
	Employees    int
	NewHires     int
	Managers     int
	PresentToday int
}

// BuildStats turns raw counts into the wire shape. Attendance is the share
// of employees with a time entry today, "0.00%" when there are no employees.
func BuildStats(c Counts) Stats {
	rate := 0.0
	if c.Employees > 0 {
		rate = float64(c.PresentToday) / float64(c.Employees) * 100
	}
	return Stats{
		TotalEmployees: c.Employees,
		NewHires:       c.NewHires,
		AttendanceRate: fmt.Sprintf("%.2f%%", rate),
		Managers:       c.Managers,
	}
}

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

func (s *Store) Counts(ctx context.Context, today time.Time) (Counts, error) {
	var c Counts
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(*) FROM employees),
      (SELECT COUNT(*) FROM employees WHERE status = 'New Hire'),
      (SELECT COUNT(*) FROM managers),
      (SELECT COUNT(*) FROM time_entries WHERE entry_date = $1)
  `, today).Scan(&c.Employees, &c.NewHires, &c.Managers, &c.PresentToday)
	return c, err
}

func (s *Store) Stats(ctx context.Context, today time.Time) (Stats, error) {
	counts, err := s.Counts(ctx, today)
	if err != nil {
		return Stats{}, err
	}
	return BuildStats(counts), nil
}
