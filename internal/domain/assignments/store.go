package assignments

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

var ErrNotFound = errors.New("assignments: not found")

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const taskColumns = `
    t.id, t.title, t.status, t.due_date, t.assigned_by, m.name, t.assigned_to, t.priority
`

func scanTask(row pgx.Row) (EmployeeTask, error) {
	var task EmployeeTask
	var dueDate time.Time
	err := row.Scan(&task.ID, &task.Title, &task.Status, &dueDate, &task.AssignedBy, &task.AssignedByName, &task.AssignedTo, &task.Priority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EmployeeTask{}, ErrNotFound
		}
		return EmployeeTask{}, err
	}
	task.DueDate = dueDate.Format("2006-01-02")
	return task, nil
}

func (s *Store) ListByAssignee(ctx context.Context, employeeID int64) ([]EmployeeTask, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+taskColumns+`
    FROM employee_tasks t
    LEFT JOIN managers m ON t.assigned_by = m.id
    WHERE t.assigned_to = $1
    ORDER BY t.due_date, t.id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []EmployeeTask{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) Get(ctx context.Context, taskID int64) (EmployeeTask, error) {
	return scanTask(s.DB.QueryRow(ctx, `
    SELECT `+taskColumns+`
    FROM employee_tasks t
    LEFT JOIN managers m ON t.assigned_by = m.id
    WHERE t.id = $1
  `, taskID))
}

func (s *Store) Create(ctx context.Context, in NewEmployeeTask) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_tasks (title, status, due_date, assigned_by, assigned_to, priority)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, in.Title, StatusPending, in.DueDate, in.AssignedBy, in.AssignedTo, in.Priority).Scan(&id)
	return id, err
}

// UpdateStatus flips the task status and appends the transition to
// task_history in the same transaction; the history row is what the
// average-completion-time metric later resolves.
func (s *Store) UpdateStatus(ctx context.Context, taskID int64, oldStatus, newStatus string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, "UPDATE employee_tasks SET status = $1 WHERE id = $2", newStatus, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO task_history (task_id, old_status, new_status)
    VALUES ($1,$2,$3)
  `, taskID, oldStatus, newStatus); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpcomingDeadlines returns the next few unfinished tasks by due date.
func (s *Store) UpcomingDeadlines(ctx context.Context, employeeID int64, limit int) ([]Deadline, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.title, t.due_date, t.priority, COALESCE(m.name, 'Unknown')
    FROM employee_tasks t
    LEFT JOIN managers m ON t.assigned_by = m.id
    WHERE t.assigned_to = $1
      AND t.status <> $2
      AND t.due_date >= CURRENT_DATE
    ORDER BY t.due_date
    LIMIT $3
  `, employeeID, StatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deadlines := []Deadline{}
	for rows.Next() {
		var d Deadline
		var dueDate time.Time
		if err := rows.Scan(&d.ID, &d.Title, &dueDate, &d.Priority, &d.AssignedBy); err != nil {
			return nil, err
		}
		d.DueDate = dueDate.Format("2006-01-02")
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}
