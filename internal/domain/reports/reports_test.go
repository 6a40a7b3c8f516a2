package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildStats(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Stats
	}{
		{
			name:   "no employees yields zero rate",
			counts: Counts{},
			want:   Stats{AttendanceRate: "0.00%"},
		},
		{
			name:   "partial attendance",
			counts: Counts{Employees: 8, NewHires: 2, Managers: 3, PresentToday: 5},
			want:   Stats{TotalEmployees: 8, NewHires: 2, AttendanceRate: "62.50%", Managers: 3},
		},
		{
			name:   "full attendance",
			counts: Counts{Employees: 4, PresentToday: 4, Managers: 1},
			want:   Stats{TotalEmployees: 4, AttendanceRate: "100.00%", Managers: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildStats(tt.counts))
		})
	}
}
