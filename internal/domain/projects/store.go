package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

var ErrNotFound = errors.New("projects: not found")

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const projectColumns = `
    p.id, p.name, p.deadline, p.status,
    (SELECT COUNT(1) FROM tasks t WHERE t.project_id = p.id)
`

func scanProject(row pgx.Row) (Project, error) {
	var proj Project
	err := row.Scan(&proj.ID, &proj.Name, &proj.Deadline, &proj.Status, &proj.TaskCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return proj, err
}

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+projectColumns+" FROM projects p ORDER BY p.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, proj)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, projectID int64) (Project, error) {
	return scanProject(s.DB.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects p WHERE p.id = $1", projectID))
}

func (s *Store) CreateProject(ctx context.Context, proj Project) (Project, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO projects (name, deadline, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, proj.Name, proj.Deadline, proj.Status).Scan(&proj.ID)
	return proj, err
}

func (s *Store) UpdateProject(ctx context.Context, proj Project) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE projects SET name = $1, deadline = $2, status = $3 WHERE id = $4
  `, proj.Name, proj.Deadline, proj.Status, proj.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes the project; its tasks go with it via the cascading
// foreign key.
func (s *Store) DeleteProject(ctx context.Context, projectID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM projects WHERE id = $1", projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const taskColumns = "id, title, description, deadline, status, project_id, assigned_to"

func scanTask(row pgx.Row) (Task, error) {
	var task Task
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Deadline, &task.Status, &task.ProjectID, &task.AssignedTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return task, err
}

func (s *Store) collectTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) ListTasksByProject(ctx context.Context, projectID int64) ([]Task, error) {
	return s.collectTasks(ctx, "SELECT "+taskColumns+" FROM tasks WHERE project_id = $1 ORDER BY id", projectID)
}

func (s *Store) ListTasksByAssignee(ctx context.Context, employeeID int64) ([]Task, error) {
	return s.collectTasks(ctx, "SELECT "+taskColumns+" FROM tasks WHERE assigned_to = $1 ORDER BY id", employeeID)
}

func (s *Store) ListTasksByAssignees(ctx context.Context, employeeIDs []int64) ([]Task, error) {
	return s.collectTasks(ctx, "SELECT "+taskColumns+" FROM tasks WHERE assigned_to = ANY($1) ORDER BY id", employeeIDs)
}

func (s *Store) GetTask(ctx context.Context, taskID int64) (Task, error) {
	return scanTask(s.DB.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", taskID))
}

func (s *Store) GetTaskForAssignee(ctx context.Context, taskID, employeeID int64) (Task, error) {
	return scanTask(s.DB.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND assigned_to = $2", taskID, employeeID))
}

func (s *Store) CreateTask(ctx context.Context, task Task) (Task, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (title, description, deadline, status, project_id, assigned_to)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, task.Title, task.Description, task.Deadline, task.Status, task.ProjectID, task.AssignedTo).Scan(&task.ID)
	return task, err
}

func (s *Store) UpdateTask(ctx context.Context, task Task) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET title = $1, description = $2, deadline = $3, status = $4, project_id = $5, assigned_to = $6
    WHERE id = $7
  `, task.Title, task.Description, task.Deadline, task.Status, task.ProjectID, task.AssignedTo, task.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, taskID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1", taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE tasks SET status = $1 WHERE id = $2", status, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteProject flips the project to On Going once any of its tasks has
// been picked up.
func (s *Store) PromoteProject(ctx context.Context, projectID int64) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE projects
    SET status = $1
    WHERE id = $2
      AND EXISTS (
        SELECT 1 FROM tasks
        WHERE project_id = $2 AND status IN ($3, $4)
      )
  `, StatusOnGoing, projectID, StatusInProgress, StatusCompleted)
	return err
}
