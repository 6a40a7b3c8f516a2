package projects

import "time"

const (
	StatusNotStarted = "Not Started"
	StatusOnGoing    = "On Going"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

type Project struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Deadline  *time.Time `json:"deadline"`
	Status    string     `json:"status"`
	TaskCount int        `json:"taskCount"`
}

// Task is a project task, distinct from the manager-assigned employee task.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	ProjectID   int64      `json:"projectId"`
	AssignedTo  *int64     `json:"assignedTo"`
}

type ProjectPatch struct {
	Name     *string
	Deadline *time.Time
	Status   *string
}

type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Status      *string
	ProjectID   *int64
	AssignedTo  *int64
}

// Apply merges the present fields onto the project, leaving absent ones
// untouched.
func (p ProjectPatch) Apply(proj *Project) {
	if p.Name != nil {
		proj.Name = *p.Name
	}
	if p.Deadline != nil {
		proj.Deadline = p.Deadline
	}
	if p.Status != nil {
		proj.Status = *p.Status
	}
}

func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Deadline != nil {
		task.Deadline = p.Deadline
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.ProjectID != nil {
		task.ProjectID = *p.ProjectID
	}
	if p.AssignedTo != nil {
		task.AssignedTo = p.AssignedTo
	}
}
