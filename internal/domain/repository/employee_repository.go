package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

// ErrNotFound is returned by every EmployeeRepository implementation when
// the requested employee does not exist.
var ErrNotFound = errors.New("employee not found")

// EmployeeRepository defines the interface for employee persistence.
// Create assigns ID, CreatedAt and UpdatedAt on the passed entity.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Employee, error)
}
