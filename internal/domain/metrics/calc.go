package metrics

import "time"

// TaskRecord is one completed employee task as seen by the aggregator.
// CompletedAt is the timestamp of the most recent status-history row that
// moved the task into Completed; nil when no such row exists.
type TaskRecord struct {
	DueDate     time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Figures holds the recomputed metric values for one employee.
type Figures struct {
	TasksCompleted        int
	TasksInProgress       int
	ProjectsContributed   int
	AverageTaskCompletion float64
	OnTimeCompletionRate  float64
}

// Compute derives every figure from scratch. Recomputing (rather than
// applying a delta for the status transition) keeps the call idempotent and
// immune to lost updates under concurrent or retried recomputes.
func Compute(completed []TaskRecord, inProgress, distinctProjects int) Figures {
	figures := Figures{
		TasksCompleted:      len(completed),
		TasksInProgress:     inProgress,
		ProjectsContributed: distinctProjects,
	}

	if len(completed) == 0 {
		return figures
	}

	onTime := 0
	totalDays := 0
	resolvable := 0
	for _, task := range completed {
		// On time when the due date's midnight is not before creation.
		if !task.DueDate.Before(task.CreatedAt) {
			onTime++
		}
		if task.CompletedAt == nil {
			// No history row resolves the completion moment; the task is
			// left out of the average entirely.
			continue
		}
		days := int(task.CompletedAt.Sub(task.CreatedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		totalDays += days
		resolvable++
	}

	figures.OnTimeCompletionRate = float64(onTime) / float64(len(completed)) * 100
	if resolvable > 0 {
		figures.AverageTaskCompletion = float64(totalDays) / float64(resolvable)
	}
	return figures
}
