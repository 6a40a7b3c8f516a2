package directory

import "strings"

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Employee struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Position    string   `json:"position"`
	Department  string   `json:"department"`
	StartDate   string   `json:"start_date"`
	Salary      *float64 `json:"salary"`
	Phone       *string  `json:"phone"`
	ManagerID   *int64   `json:"manager_id"`
	ManagerName *string  `json:"manager_name"`
	Status      string   `json:"status"`
}

type Manager struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Title         string `json:"title"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Department    string `json:"department"`
	DirectReports int    `json:"directReports"`
	HireDate      string `json:"hireDate"`
	Status        string `json:"status"`
	AvatarInitial string `json:"avatarInitial"`
}

const (
	EmployeeStatusNewHire = "New Hire"
	ManagerStatusActive   = "Active"
)

// avatarInitials builds the initials shown on manager cards, one letter per
// name part.
func avatarInitials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(string([]rune(part)[0]))
	}
	return b.String()
}
