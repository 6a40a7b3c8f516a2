package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string        { return &s }
func intPtr(i int64) *int64          { return &i }
func floatPtr(f float64) *float64    { return &f }
func datePtr(t time.Time) *time.Time { return &t }

func TestEmployeePatchSetClausesOnlyPresentFields(t *testing.T) {
	patch := EmployeePatch{
		Name:   strPtr("Jane Doe"),
		Salary: floatPtr(85000),
	}

	cols, vals := patch.setClauses()
	assert.Equal(t, []string{"name", "salary"}, cols)
	assert.Equal(t, []any{"Jane Doe", 85000.0}, vals)
}

func TestEmployeePatchSetClausesEmpty(t *testing.T) {
	cols, vals := EmployeePatch{}.setClauses()
	assert.Empty(t, cols)
	assert.Empty(t, vals)
}

func TestEmployeePatchSetClausesAllFields(t *testing.T) {
	start := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	patch := EmployeePatch{
		Name:       strPtr("A"),
		Email:      strPtr("a@example.com"),
		Position:   strPtr("Engineer"),
		Department: strPtr("R&D"),
		StartDate:  datePtr(start),
		Salary:     floatPtr(1),
		Phone:      strPtr("555"),
		ManagerID:  intPtr(3),
		Status:     strPtr("Active"),
	}

	cols, _ := patch.setClauses()
	assert.Equal(t, []string{
		"name", "email", "position", "department", "start_date",
		"salary", "phone", "manager_id", "status",
	}, cols)
}

func TestManagerPatchSetClauses(t *testing.T) {
	reports := 4
	patch := ManagerPatch{
		Title:         strPtr("Director"),
		DirectReports: &reports,
	}

	cols, vals := patch.setClauses()
	assert.Equal(t, []string{"title", "direct_reports"}, cols)
	assert.Equal(t, []any{"Director", 4}, vals)
}

func TestAvatarInitials(t *testing.T) {
	assert.Equal(t, "JD", avatarInitials("Jane Doe"))
	assert.Equal(t, "J", avatarInitials("Jane"))
	assert.Equal(t, "", avatarInitials(""))
}
