package assignments

import "time"

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// EmployeeTask is a manager-assigned task, unrelated to project tasks.
type EmployeeTask struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	DueDate        string  `json:"due_date"`
	AssignedBy     int64   `json:"assigned_by"`
	AssignedByName *string `json:"assigned_by_name"`
	AssignedTo     int64   `json:"assigned_to"`
	Priority       string  `json:"priority"`
}

type Deadline struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	DueDate    string `json:"dueDate"`
	Priority   string `json:"priority"`
	AssignedBy string `json:"assignedBy"`
}

type NewEmployeeTask struct {
	Title      string
	DueDate    time.Time
	AssignedBy int64
	AssignedTo int64
	Priority   string
}
