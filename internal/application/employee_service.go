package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	repo "github.com/oksasatya/employee-management-api/internal/domain/repository"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

// EmployeeInput is the caller-supplied part of an employee record.
type EmployeeInput struct {
	FirstName  string  `json:"firstName" validate:"required"`
	LastName   string  `json:"lastName" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Department string  `json:"department" validate:"required"`
	Salary     float64 `json:"salary" validate:"money"`
}

func (in EmployeeInput) normalized() EmployeeInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Department = strings.TrimSpace(in.Department)
	return in
}

func (in EmployeeInput) applyTo(e *entity.Employee) {
	e.FirstName = in.FirstName
	e.LastName = in.LastName
	e.Email = in.Email
	e.Department = in.Department
	e.Salary = in.Salary
}

const (
	AuditCreateStarted   = "create_started"
	AuditCreateSaved     = "create_saved"
	AuditCreateCompleted = "create_completed"
)

type EmployeeService struct {
	Repo        repo.EmployeeRepository
	Emails      EmailValidator
	Departments DepartmentValidator
	Notifier    Notifier
	Audit       AuditLogger
	Locks       KeyLocker
	Logger      *logrus.Logger
}

func NewEmployeeService(r repo.EmployeeRepository, emails EmailValidator, departments DepartmentValidator,
	notifier Notifier, audit AuditLogger, locks KeyLocker, logger *logrus.Logger) *EmployeeService {
	return &EmployeeService{
		Repo:        r,
		Emails:      emails,
		Departments: departments,
		Notifier:    notifier,
		Audit:       audit,
		Locks:       locks,
		Logger:      logger,
	}
}

func lockKey(id string) string {
	return "employee:" + id
}

// Create validates, persists and announces a new employee.
func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*entity.Employee, error) {
	in = in.normalized()
	s.audit(ctx, AuditCreateStarted, "", "Starting creation of employee with email: "+in.Email)

	if err := validation.Struct(in); err != nil {
		return nil, invalidInput(validation.Summary(err))
	}

	if err := s.checkEmail(ctx, in.Email, "Email is invalid according to third-party validation"); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, in.Department, "Department is invalid according to third-party validation"); err != nil {
		return nil, err
	}

	e := &entity.Employee{}
	in.applyTo(e)
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	s.audit(ctx, AuditCreateSaved, e.ID, "Employee saved successfully: "+e.ID)

	if s.Notifier != nil {
		s.Notifier.NotifyCreated(e.Clone())
	}

	s.audit(ctx, AuditCreateCompleted, e.ID, "Employee creation process completed for: "+e.ID)
	return e, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(id, err)
	}
	return e, nil
}

// Update replaces every mutable field of employee id. A changed email or
// department is re-validated against the previously stored value; a rejected
// update leaves the stored record untouched.
func (s *EmployeeService) Update(ctx context.Context, id string, in EmployeeInput) (*entity.Employee, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, invalidInput(validation.Summary(err))
	}

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr(id, err)
	}

	if in.Email != current.Email {
		if err := s.checkEmail(ctx, in.Email, "Updated email is invalid according to third-party validation"); err != nil {
			return nil, err
		}
	}
	if in.Department != current.Department {
		if err := s.checkDepartment(ctx, in.Department, "Updated department is invalid according to third-party validation"); err != nil {
			return nil, err
		}
	}

	next := current.Clone()
	in.applyTo(next)
	if err := s.Repo.Update(ctx, next); err != nil {
		return nil, s.storeErr(id, err)
	}
	return next, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return s.storeErr(id, err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return s.storeErr(id, err)
	}
	return nil
}

func (s *EmployeeService) List(ctx context.Context) ([]*entity.Employee, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

func (s *EmployeeService) checkEmail(ctx context.Context, email, rejectMsg string) error {
	ok, err := s.Emails.ValidateEmail(ctx, email)
	if err != nil {
		return providerUnavailable("email", err)
	}
	if !ok {
		return invalidInput(rejectMsg)
	}
	return nil
}

func (s *EmployeeService) checkDepartment(ctx context.Context, department, rejectMsg string) error {
	ok, err := s.Departments.ValidateDepartment(ctx, department)
	if err != nil {
		return providerUnavailable("department", err)
	}
	if !ok {
		return invalidInput(rejectMsg)
	}
	return nil
}

func (s *EmployeeService) lock(ctx context.Context, id string) (func(), error) {
	if s.Locks == nil {
		return func() {}, nil
	}
	unlock, err := s.Locks.Lock(ctx, lockKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock employee %s: %w", id, err)
	}
	return unlock, nil
}

func (s *EmployeeService) storeErr(id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(id)
	}
	return fmt.Errorf("employee %s: %w", id, err)
}

func (s *EmployeeService) audit(ctx context.Context, action, id, msg string) {
	if s.Audit != nil {
		s.Audit.Log(ctx, action, id, msg)
	}
}
