package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"ems/internal/platform/db"
)

var (
	ErrNotFound   = errors.New("directory: not found")
	ErrEmailTaken = errors.New("directory: email already in use")
)

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const employeeColumns = `
    e.id, e.name, e.email, e.position, e.department, e.start_date,
    e.salary, e.phone, e.manager_id, m.name, e.status
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var startDate time.Time
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Position, &emp.Department,
		&startDate, &emp.Salary, &emp.Phone, &emp.ManagerID, &emp.ManagerName,
		&emp.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	emp.StartDate = startDate.Format("2006-01-02")
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN managers m ON e.manager_id = m.id
    ORDER BY e.id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, employeeID int64) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN managers m ON e.manager_id = m.id
    WHERE e.id = $1
  `, employeeID))
}

func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN managers m ON e.manager_id = m.id
    WHERE e.email = $1
  `, email))
}

func (s *Store) ListEmployeesByManager(ctx context.Context, managerID int64) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    LEFT JOIN managers m ON e.manager_id = m.id
    WHERE e.manager_id = $1
    ORDER BY e.id
  `, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// EmailInUse reports whether the address is already claimed by any
// employee, manager, or user account.
func (s *Store) EmailInUse(ctx context.Context, q db.Queryer, email string, excludeEmployeeID, excludeManagerID int64) (bool, error) {
	var count int
	err := q.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM employees WHERE email = $1 AND id <> $2)
         + (SELECT COUNT(1) FROM managers WHERE email = $1 AND id <> $3)
         + (SELECT COUNT(1) FROM users WHERE username = $1)
  `, email, excludeEmployeeID, excludeManagerID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ManagerExists(ctx context.Context, managerID int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM managers WHERE id = $1", managerID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

type NewEmployee struct {
	Name       string
	Email      string
	Position   string
	Department string
	StartDate  time.Time
	Salary     *float64
	Phone      *string
	ManagerID  int64
	Status     string
}

// CreateEmployee inserts the employee row and its paired login in one
// transaction, so a failed user insert leaves no orphan employee.
func (s *Store) CreateEmployee(ctx context.Context, in NewEmployee, passwordHash, role string) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inUse, err := s.EmailInUse(ctx, tx, in.Email, 0, 0)
	if err != nil {
		return 0, err
	}
	if inUse {
		return 0, ErrEmailTaken
	}

	var id int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO employees (name, email, position, department, start_date, salary, phone, manager_id, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, in.Name, in.Email, in.Position, in.Department, in.StartDate, in.Salary, in.Phone, in.ManagerID, in.Status).Scan(&id); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO users (username, password_hash, role)
    VALUES ($1,$2,$3)
  `, in.Email, passwordHash, role); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID int64, patch EmployeePatch) error {
	if patch.Email != nil {
		var current string
		if err := s.DB.QueryRow(ctx, "SELECT email FROM employees WHERE id = $1", employeeID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		// The paired users row carries the same address, so only an actual
		// change gets the cross-table check.
		if *patch.Email != current {
			inUse, err := s.EmailInUse(ctx, s.DB, *patch.Email, employeeID, 0)
			if err != nil {
				return err
			}
			if inUse {
				return ErrEmailTaken
			}
		}
	}

	cols, vals := patch.setClauses()
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	vals = append(vals, employeeID)

	tag, err := s.DB.Exec(ctx,
		fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", strings.Join(sets, ", "), len(vals)),
		vals...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AssignManager(ctx context.Context, employeeID, managerID int64) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET manager_id = $1 WHERE id = $2", managerID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanManager(row pgx.Row) (Manager, error) {
	var mgr Manager
	var hireDate time.Time
	err := row.Scan(
		&mgr.ID, &mgr.Name, &mgr.Title, &mgr.Email, &mgr.Phone,
		&mgr.Department, &mgr.DirectReports, &hireDate, &mgr.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Manager{}, ErrNotFound
		}
		return Manager{}, err
	}
	mgr.HireDate = hireDate.Format("2006-01-02")
	mgr.AvatarInitial = avatarInitials(mgr.Name)
	return mgr, nil
}

const managerColumns = "id, name, title, email, phone, department, direct_reports, hire_date, status"

func (s *Store) ListManagers(ctx context.Context) ([]Manager, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+managerColumns+" FROM managers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := []Manager{}
	for rows.Next() {
		mgr, err := scanManager(rows)
		if err != nil {
			return nil, err
		}
		managers = append(managers, mgr)
	}
	return managers, rows.Err()
}

func (s *Store) GetManager(ctx context.Context, managerID int64) (Manager, error) {
	return scanManager(s.DB.QueryRow(ctx, "SELECT "+managerColumns+" FROM managers WHERE id = $1", managerID))
}

func (s *Store) GetManagerByEmail(ctx context.Context, email string) (Manager, error) {
	return scanManager(s.DB.QueryRow(ctx, "SELECT "+managerColumns+" FROM managers WHERE email = $1", email))
}

type NewManager struct {
	Name          string
	Title         string
	Email         string
	Phone         string
	Department    string
	DirectReports int
	HireDate      time.Time
	Status        string
}

func (s *Store) CreateManager(ctx context.Context, in NewManager, passwordHash, role string) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inUse, err := s.EmailInUse(ctx, tx, in.Email, 0, 0)
	if err != nil {
		return 0, err
	}
	if inUse {
		return 0, ErrEmailTaken
	}

	var id int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO managers (name, title, email, phone, department, direct_reports, hire_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, in.Name, in.Title, in.Email, in.Phone, in.Department, in.DirectReports, in.HireDate, in.Status).Scan(&id); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO users (username, password_hash, role)
    VALUES ($1,$2,$3)
  `, in.Email, passwordHash, role); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateManager(ctx context.Context, managerID int64, patch ManagerPatch) error {
	if patch.Email != nil {
		var current string
		if err := s.DB.QueryRow(ctx, "SELECT email FROM managers WHERE id = $1", managerID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if *patch.Email != current {
			inUse, err := s.EmailInUse(ctx, s.DB, *patch.Email, 0, managerID)
			if err != nil {
				return err
			}
			if inUse {
				return ErrEmailTaken
			}
		}
	}

	cols, vals := patch.setClauses()
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	vals = append(vals, managerID)

	tag, err := s.DB.Exec(ctx,
		fmt.Sprintf("UPDATE managers SET %s WHERE id = $%d", strings.Join(sets, ", "), len(vals)),
		vals...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteManager removes the manager and its paired login in one
// transaction.
func (s *Store) DeleteManager(ctx context.Context, managerID int64) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var email string
	if err := tx.QueryRow(ctx, "SELECT email FROM managers WHERE id = $1", managerID).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM managers WHERE id = $1", managerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM users WHERE username = $1", email); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, username, role FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash, role string) (int64, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE username = $1", username).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrEmailTaken
	}

	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (username, password_hash, role)
    VALUES ($1,$2,$3)
    RETURNING id
  `, username, passwordHash, role).Scan(&id)
	return id, err
}

type Credential struct {
	UserID       int64
	Username     string
	Role         string
	PasswordHash string
}

func (s *Store) FindCredential(ctx context.Context, username string) (Credential, error) {
	var cred Credential
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, role, password_hash
    FROM users
    WHERE username = $1
  `, username).Scan(&cred.UserID, &cred.Username, &cred.Role, &cred.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	return cred, err
}
