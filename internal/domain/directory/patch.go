package directory

import "time"

// EmployeePatch enumerates the fields a PUT may change. Nil means the field
// was absent from the request body and must stay untouched.
type EmployeePatch struct {
	Name       *string
	Email      *string
	Position   *string
	Department *string
	StartDate  *time.Time
	Salary     *float64
	Phone      *string
	ManagerID  *int64
	Status     *string
}

type ManagerPatch struct {
	Name          *string
	Title         *string
	Email         *string
	Phone         *string
	Department    *string
	DirectReports *int
	HireDate      *time.Time
	Status        *string
}

// setClauses walks the non-nil patch fields and yields column/value pairs in
// a stable order for SQL assembly.
func (p EmployeePatch) setClauses() ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, val any) {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Position != nil {
		add("position", *p.Position)
	}
	if p.Department != nil {
		add("department", *p.Department)
	}
	if p.StartDate != nil {
		add("start_date", *p.StartDate)
	}
	if p.Salary != nil {
		add("salary", *p.Salary)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.ManagerID != nil {
		add("manager_id", *p.ManagerID)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	return cols, vals
}

func (p ManagerPatch) setClauses() ([]string, []any) {
	var cols []string
	var vals []any
	add := func(col string, val any) {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Department != nil {
		add("department", *p.Department)
	}
	if p.DirectReports != nil {
		add("direct_reports", *p.DirectReports)
	}
	if p.HireDate != nil {
		add("hire_date", *p.HireDate)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	return cols, vals
}
