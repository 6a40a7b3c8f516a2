package metrics

import "time"

// Metric mirrors the per-employee performance_metrics row. It is derived
// data: callers read it, the aggregator writes it.
type Metric struct {
	ID                    int64     `json:"id"`
	EmployeeID            int64     `json:"employee_id"`
	TasksCompleted        int       `json:"tasks_completed"`
	TasksInProgress       int       `json:"tasks_in_progress"`
	ProjectsContributed   int       `json:"projects_contributed"`
	AverageTaskCompletion float64   `json:"average_task_completion"`
	OnTimeCompletionRate  float64   `json:"on_time_completion_rate"`
	LastUpdated           time.Time `json:"last_updated"`
}
