package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
)

// EmployeeRepository keeps employees in process memory, in insertion order.
// Records are copied on the way in and out.
type EmployeeRepository struct {
	mu    sync.RWMutex
	byID  map[string]*entity.Employee
	order []string
	now   func() time.Time
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		byID: make(map[string]*entity.Employee),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *EmployeeRepository) Create(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now()
	e.ID = uuid.NewString()
	e.Salary = cents(e.Salary)
	e.CreatedAt, e.UpdatedAt = ts, ts
	r.byID[e.ID] = e.Clone()
	r.order = append(r.order, e.ID)
	return nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e.Clone(), nil
}

func (r *EmployeeRepository) Update(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = r.now()
	e.Salary = cents(e.Salary)
	r.byID[e.ID] = e.Clone()
	return nil
}

func (r *EmployeeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *EmployeeRepository) List(_ context.Context) ([]*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

// cents rounds like a NUMERIC(12,2) column so both stores return the same amount.
func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)
