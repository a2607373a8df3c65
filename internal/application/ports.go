package application

import (
	"context"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

// EmailValidator asks a third party whether an email address is acceptable.
type EmailValidator interface {
	ValidateEmail(ctx context.Context, email string) (bool, error)
}

// DepartmentValidator asks a third party whether a department name is acceptable.
type DepartmentValidator interface {
	ValidateDepartment(ctx context.Context, department string) (bool, error)
}

// Notifier delivers the "employee created" message. It must return
// immediately; delivery happens in the background.
type Notifier interface {
	NotifyCreated(e *entity.Employee)
}

// AuditLogger records operational messages. Failures are the logger's problem.
type AuditLogger interface {
	Log(ctx context.Context, action, employeeID, message string)
}

// KeyLocker serializes writers on the same key. The returned func releases the lock.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
