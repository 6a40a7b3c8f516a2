package timetracking

import "time"

const (
	StatusIn  = "In"
	StatusOut = "Out"
)

type TimeEntry struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	Date       string     `json:"date"`
	TimeIn     time.Time  `json:"time_in"`
	TimeOut    *time.Time `json:"time_out"`
	Status     string     `json:"status"`
}

// HistoryEntry is the trimmed-down shape the history endpoint returns.
type HistoryEntry struct {
	Date    string  `json:"date"`
	TimeIn  *string `json:"timeIn"`
	TimeOut *string `json:"timeOut"`
}
