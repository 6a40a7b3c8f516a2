package directory

import (
	"context"

	"ems/internal/domain/auth"
)

const (
	DefaultEmployeePassword = "employee123"
	DefaultManagerPassword  = "manager123"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, employeeID int64) (Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *Service) GetEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	return s.Store.GetEmployeeByEmail(ctx, email)
}

func (s *Service) ListEmployeesByManager(ctx context.Context, managerID int64) ([]Employee, error) {
	return s.Store.ListEmployeesByManager(ctx, managerID)
}

func (s *Service) ManagerExists(ctx context.Context, managerID int64) (bool, error) {
	return s.Store.ManagerExists(ctx, managerID)
}

// CreateEmployee provisions the employee together with a login that uses
// the well-known default password.
func (s *Service) CreateEmployee(ctx context.Context, in NewEmployee) (Employee, string, error) {
	hash, err := auth.HashPassword(DefaultEmployeePassword)
	if err != nil {
		return Employee{}, "", err
	}
	id, err := s.Store.CreateEmployee(ctx, in, hash, auth.RoleEmployee)
	if err != nil {
		return Employee{}, "", err
	}
	emp, err := s.Store.GetEmployee(ctx, id)
	return emp, DefaultEmployeePassword, err
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID int64, patch EmployeePatch) (Employee, error) {
	if err := s.Store.UpdateEmployee(ctx, employeeID, patch); err != nil {
		return Employee{}, err
	}
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *Service) DeleteEmployee(ctx context.Context, employeeID int64) error {
	return s.Store.DeleteEmployee(ctx, employeeID)
}

func (s *Service) AssignManager(ctx context.Context, employeeID, managerID int64) error {
	exists, err := s.Store.ManagerExists(ctx, managerID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return s.Store.AssignManager(ctx, employeeID, managerID)
}

func (s *Service) ListManagers(ctx context.Context) ([]Manager, error) {
	return s.Store.ListManagers(ctx)
}

func (s *Service) GetManager(ctx context.Context, managerID int64) (Manager, error) {
	return s.Store.GetManager(ctx, managerID)
}

func (s *Service) GetManagerByEmail(ctx context.Context, email string) (Manager, error) {
	return s.Store.GetManagerByEmail(ctx, email)
}

func (s *Service) CreateManager(ctx context.Context, in NewManager) (Manager, string, error) {
	hash, err := auth.HashPassword(DefaultManagerPassword)
	if err != nil {
		return Manager{}, "", err
	}
	id, err := s.Store.CreateManager(ctx, in, hash, auth.RoleManager)
	if err != nil {
		return Manager{}, "", err
	}
	mgr, err := s.Store.GetManager(ctx, id)
	return mgr, DefaultManagerPassword, err
}

func (s *Service) UpdateManager(ctx context.Context, managerID int64, patch ManagerPatch) (Manager, error) {
	if err := s.Store.UpdateManager(ctx, managerID, patch); err != nil {
		return Manager{}, err
	}
	return s.Store.GetManager(ctx, managerID)
}

func (s *Service) DeleteManager(ctx context.Context, managerID int64) error {
	return s.Store.DeleteManager(ctx, managerID)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.Store.ListUsers(ctx)
}

// CreateUser provisions a bare login for the given role with the
// role-derived default password, e.g. manager123.
func (s *Service) CreateUser(ctx context.Context, username, role string) (string, error) {
	defaultPassword := role + "123"
	hash, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return "", err
	}
	if _, err := s.Store.CreateUser(ctx, username, hash, role); err != nil {
		return "", err
	}
	return defaultPassword, nil
}

func (s *Service) FindCredential(ctx context.Context, username string) (Credential, error) {
	return s.Store.FindCredential(ctx, username)
}
