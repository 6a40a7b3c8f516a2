package projects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectPatchApplyPartial(t *testing.T) {
	deadline := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	proj := Project{ID: 1, Name: "Apollo", Deadline: &deadline, Status: StatusNotStarted}

	status := StatusOnGoing
	ProjectPatch{Status: &status}.Apply(&proj)

	assert.Equal(t, "Apollo", proj.Name)
	assert.Equal(t, &deadline, proj.Deadline)
	assert.Equal(t, StatusOnGoing, proj.Status)
}

func TestTaskPatchApplyPartial(t *testing.T) {
	assignee := int64(7)
	task := Task{ID: 2, Title: "Write docs", Status: StatusNotStarted, ProjectID: 1, AssignedTo: &assignee}

	title := "Write better docs"
	newAssignee := int64(9)
	TaskPatch{Title: &title, AssignedTo: &newAssignee}.Apply(&task)

	assert.Equal(t, "Write better docs", task.Title)
	assert.Equal(t, StatusNotStarted, task.Status)
	assert.Equal(t, int64(1), task.ProjectID)
	assert.Equal(t, int64(9), *task.AssignedTo)
}

func TestTaskPatchApplyEmptyChangesNothing(t *testing.T) {
	deadline := time.Date(2025, time.April, 4, 0, 0, 0, 0, time.UTC)
	task := Task{ID: 3, Title: "Ship", Description: "v2", Deadline: &deadline, Status: StatusInProgress, ProjectID: 5}
	before := task

	TaskPatch{}.Apply(&task)
	assert.Equal(t, before, task)
}
