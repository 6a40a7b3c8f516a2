package leave

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	TypeAnnual   = "Annual"
	TypeSick     = "Sick"
	TypePersonal = "Personal"
)

// Default allowances granted when an employee's balance row for the year is
// first touched.
const (
	DefaultAnnualDays   = 15
	DefaultSickDays     = 10
	DefaultPersonalDays = 5
)

type Request struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

type Balance struct {
	ID         int64 `json:"id"`
	EmployeeID int64 `json:"employee_id"`
	Annual     int   `json:"annual"`
	Sick       int   `json:"sick"`
	Personal   int   `json:"personal"`
	Year       int   `json:"year"`
}

type NewRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
