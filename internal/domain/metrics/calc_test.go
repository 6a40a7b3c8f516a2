package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(y int, m time.Month, d, hour int) *time.Time {
	t := time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestComputeEmpty(t *testing.T) {
	figures := Compute(nil, 0, 0)
	assert.Zero(t, figures.TasksCompleted)
	assert.Zero(t, figures.TasksInProgress)
	assert.Zero(t, figures.ProjectsContributed)
	assert.Zero(t, figures.OnTimeCompletionRate)
	assert.Zero(t, figures.AverageTaskCompletion)
}

func TestComputeTwoCompletedOneInProgress(t *testing.T) {
	// Two completed tasks, one due after creation (on time) and one created
	// after its due date had passed (late), plus one task still in progress.
	completed := []TaskRecord{
		{
			DueDate:     date(2025, time.March, 10),
			CreatedAt:   date(2025, time.March, 1),
			CompletedAt: ts(2025, time.March, 5, 12),
		},
		{
			DueDate:     date(2025, time.March, 2),
			CreatedAt:   date(2025, time.March, 4),
			CompletedAt: ts(2025, time.March, 8, 9),
		},
	}

	figures := Compute(completed, 1, 2)
	assert.Equal(t, 2, figures.TasksCompleted)
	assert.Equal(t, 1, figures.TasksInProgress)
	assert.Equal(t, 2, figures.ProjectsContributed)
	assert.InDelta(t, 50.0, figures.OnTimeCompletionRate, 1e-9)
	// 4 whole days + 4 whole days over 2 resolvable tasks.
	assert.InDelta(t, 4.0, figures.AverageTaskCompletion, 1e-9)
}

func TestComputeSkipsTasksWithoutHistory(t *testing.T) {
	completed := []TaskRecord{
		{
			DueDate:     date(2025, time.June, 20),
			CreatedAt:   date(2025, time.June, 1),
			CompletedAt: ts(2025, time.June, 11, 0),
		},
		{
			// Completed on paper but no history row resolves when; it still
			// counts toward the on-time rate, never toward the average.
			DueDate:   date(2025, time.June, 30),
			CreatedAt: date(2025, time.June, 2),
		},
	}

	figures := Compute(completed, 0, 0)
	assert.Equal(t, 2, figures.TasksCompleted)
	assert.InDelta(t, 100.0, figures.OnTimeCompletionRate, 1e-9)
	assert.InDelta(t, 10.0, figures.AverageTaskCompletion, 1e-9)
}

func TestComputeClampsNegativeCompletionDays(t *testing.T) {
	// History timestamp earlier than creation (clock skew) must not drive
	// the average below zero.
	completed := []TaskRecord{
		{
			DueDate:     date(2025, time.May, 5),
			CreatedAt:   date(2025, time.May, 3),
			CompletedAt: ts(2025, time.May, 1, 0),
		},
	}

	figures := Compute(completed, 0, 0)
	assert.Zero(t, figures.AverageTaskCompletion)
}

func TestComputeDueDateEqualToCreationIsOnTime(t *testing.T) {
	completed := []TaskRecord{
		{
			DueDate:     date(2025, time.July, 1),
			CreatedAt:   date(2025, time.July, 1),
			CompletedAt: ts(2025, time.July, 1, 18),
		},
	}

	figures := Compute(completed, 0, 0)
	assert.InDelta(t, 100.0, figures.OnTimeCompletionRate, 1e-9)
}

func TestComputeIsIdempotent(t *testing.T) {
	completed := []TaskRecord{
		{
			DueDate:     date(2025, time.April, 15),
			CreatedAt:   date(2025, time.April, 1),
			CompletedAt: ts(2025, time.April, 10, 8),
		},
		{
			DueDate:     date(2025, time.April, 2),
			CreatedAt:   date(2025, time.April, 5),
			CompletedAt: ts(2025, time.April, 6, 8),
		},
	}

	first := Compute(completed, 3, 1)
	second := Compute(completed, 3, 1)
	assert.Equal(t, first, second)
}
