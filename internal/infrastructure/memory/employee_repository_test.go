package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
)

func newEmployee(email string) *entity.Employee {
	return &entity.Employee{FirstName: "A", LastName: "B", Email: email, Department: "Eng", Salary: 10}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	r := NewEmployeeRepository()
	e := newEmployee("a@b.co")
	require.NoError(t, r.Create(context.Background(), e))

	_, err := uuid.Parse(e.ID)
	assert.NoError(t, err)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestSalaryRoundedToCents(t *testing.T) {
	r := NewEmployeeRepository()
	ctx := context.Background()
	e := newEmployee("a@b.co")
	e.Salary = 3000.456
	require.NoError(t, r.Create(ctx, e))
	assert.Equal(t, 3000.46, e.Salary)

	e.Salary = 10.004
	require.NoError(t, r.Update(ctx, e))
	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Salary)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	r := NewEmployeeRepository()
	ctx := context.Background()
	e := newEmployee("a@b.co")
	require.NoError(t, r.Create(ctx, e))

	e.FirstName = "mutated"
	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.FirstName)

	got.Department = "mutated"
	again, _ := r.GetByID(ctx, e.ID)
	assert.Equal(t, "Eng", again.Department)
}

func TestUpdateDeleteNotFound(t *testing.T) {
	r := NewEmployeeRepository()
	ctx := context.Background()

	_, err := r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, &entity.Employee{ID: "missing"}), repository.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "missing"), repository.ErrNotFound)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	r := NewEmployeeRepository()
	ctx := context.Background()
	var ids []string
	for _, mail := range []string{"1@x.co", "2@x.co", "3@x.co"} {
		e := newEmployee(mail)
		require.NoError(t, r.Create(ctx, e))
		ids = append(ids, e.ID)
	}
	require.NoError(t, r.Delete(ctx, ids[1]))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[0], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	r := NewEmployeeRepository()
	ctx := context.Background()
	e := newEmployee("a@b.co")
	require.NoError(t, r.Create(ctx, e))
	created := e.CreatedAt

	upd := e.Clone()
	upd.Salary = 99
	upd.CreatedAt = created.Add(-1000)
	require.NoError(t, r.Update(ctx, upd))

	got, _ := r.GetByID(ctx, e.ID)
	assert.Equal(t, 99.0, got.Salary)
	assert.Equal(t, created, got.CreatedAt)
}

func TestConcurrentCreates(t *testing.T) {
	r := NewEmployeeRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Create(context.Background(), newEmployee("x@y.co"))
		}()
	}
	wg.Wait()
	list, _ := r.List(context.Background())
	assert.Len(t, list, 50)
}
