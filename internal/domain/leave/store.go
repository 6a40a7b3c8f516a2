package leave

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

const requestColumns = "id, employee_id, type, start_date, end_date, status"

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	var start, end time.Time
	if err := row.Scan(&req.ID, &req.EmployeeID, &req.Type, &start, &end, &req.Status); err != nil {
		return Request{}, err
	}
	req.StartDate = start.Format("2006-01-02")
	req.EndDate = end.Format("2006-01-02")
	return req, nil
}

// History returns the employee's requests, most recent leave first.
func (s *Store) History(ctx context.Context, employeeID int64) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1
    ORDER BY start_date DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) CreateRequest(ctx context.Context, employeeID int64, in NewRequest, start, end time.Time) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, type, start_date, end_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING `+requestColumns+`
  `, employeeID, in.Type, start, end, StatusPending))
}

// BalanceForYear returns the employee's balance row, creating it with the
// default allowances on first use.
func (s *Store) BalanceForYear(ctx context.Context, employeeID int64, year int) (Balance, error) {
	balance, err := s.selectBalance(ctx, employeeID, year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, annual, sick, personal, year)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id, year) DO NOTHING
  `, employeeID, DefaultAnnualDays, DefaultSickDays, DefaultPersonalDays, year)
	if err != nil {
		return Balance{}, err
	}
	return s.selectBalance(ctx, employeeID, year)
}

func (s *Store) selectBalance(ctx context.Context, employeeID int64, year int) (Balance, error) {
	var balance Balance
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, annual, sick, personal, year
    FROM leave_balances
    WHERE employee_id = $1 AND year = $2
  `, employeeID, year).Scan(
		&balance.ID, &balance.EmployeeID, &balance.Annual, &balance.Sick, &balance.Personal, &balance.Year,
	)
	return balance, err
}
