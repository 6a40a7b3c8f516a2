package metrics

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

var ErrEmployeeNotFound = errors.New("metrics: employee not found")

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const metricColumns = `
    id, employee_id, tasks_completed, tasks_in_progress, projects_contributed,
    average_task_completion, on_time_completion_rate, last_updated
`

func scanMetric(row pgx.Row) (Metric, error) {
	var m Metric
	err := row.Scan(
		&m.ID, &m.EmployeeID, &m.TasksCompleted, &m.TasksInProgress,
		&m.ProjectsContributed, &m.AverageTaskCompletion, &m.OnTimeCompletionRate,
		&m.LastUpdated,
	)
	return m, err
}

// GetOrCreate returns the employee's metric row, creating a zeroed one on
// first read.
func (s *Store) GetOrCreate(ctx context.Context, employeeID int64) (Metric, error) {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO performance_metrics (employee_id)
    VALUES ($1)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID); err != nil {
		return Metric{}, err
	}
	return scanMetric(s.DB.QueryRow(ctx, `
    SELECT `+metricColumns+`
    FROM performance_metrics
    WHERE employee_id = $1
  `, employeeID))
}

// Recalculate rebuilds the employee's metric row inside one transaction.
// The row is upserted and locked first so concurrent recomputes for the
// same employee serialize instead of clobbering each other.
func (s *Store) Recalculate(ctx context.Context, employeeID int64) (Metric, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Metric{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists int
	if err := tx.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", employeeID).Scan(&exists); err != nil {
		return Metric{}, err
	}
	if exists == 0 {
		return Metric{}, ErrEmployeeNotFound
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO performance_metrics (employee_id)
    VALUES ($1)
    ON CONFLICT (employee_id) DO NOTHING
  `, employeeID); err != nil {
		return Metric{}, err
	}
	var metricID int64
	if err := tx.QueryRow(ctx, `
    SELECT id FROM performance_metrics WHERE employee_id = $1 FOR UPDATE
  `, employeeID).Scan(&metricID); err != nil {
		return Metric{}, err
	}

	completed, err := completedTasks(ctx, tx, employeeID)
	if err != nil {
		return Metric{}, err
	}

	var inProgress int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(1) FROM employee_tasks WHERE assigned_to = $1 AND status = 'In Progress'
  `, employeeID).Scan(&inProgress); err != nil {
		return Metric{}, err
	}

	var distinctProjects int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(DISTINCT project_id) FROM tasks WHERE assigned_to = $1
  `, employeeID).Scan(&distinctProjects); err != nil {
		return Metric{}, err
	}

	figures := Compute(completed, inProgress, distinctProjects)

	row := tx.QueryRow(ctx, `
    UPDATE performance_metrics
    SET tasks_completed = $1,
        tasks_in_progress = $2,
        projects_contributed = $3,
        average_task_completion = $4,
        on_time_completion_rate = $5,
        last_updated = now()
    WHERE id = $6
    RETURNING `+metricColumns+`
  `, figures.TasksCompleted, figures.TasksInProgress, figures.ProjectsContributed,
		figures.AverageTaskCompletion, figures.OnTimeCompletionRate, metricID)

	metric, err := scanMetric(row)
	if err != nil {
		return Metric{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Metric{}, err
	}
	return metric, nil
}

// completedTasks loads the employee's Completed tasks with the timestamp of
// the most recent history row that moved each into Completed, when present.
func completedTasks(ctx context.Context, q db.Queryer, employeeID int64) ([]TaskRecord, error) {
	rows, err := q.Query(ctx, `
    SELECT t.due_date, t.created_at, h.created_at
    FROM employee_tasks t
    LEFT JOIN LATERAL (
      SELECT created_at
      FROM task_history
      WHERE task_id = t.id AND new_status = 'Completed'
      ORDER BY created_at DESC
      LIMIT 1
    ) h ON true
    WHERE t.assigned_to = $1 AND t.status = 'Completed'
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []TaskRecord
	for rows.Next() {
		var task TaskRecord
		if err := rows.Scan(&task.DueDate, &task.CreatedAt, &task.CompletedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
