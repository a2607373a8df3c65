package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
	"github.com/oksasatya/employee-management-api/pkg/audit"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeDB struct {
	execTag  pgconn.CommandTag
	execErr  error
	row      pgx.Row
	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

const validID = "0b7c2f8e-3b5a-4c1e-9a56-5f0f6d1f2a10"

func TestGetByIDMalformedIDIsNotFound(t *testing.T) {
	r := NewEmployeeRepository(&fakeDB{})
	_, err := r.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetByIDNoRows(t *testing.T) {
	db := &fakeDB{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}
	_, err := NewEmployeeRepository(db).GetByID(context.Background(), validID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, []any{validID}, db.lastArgs)
}

func TestCreateScansGeneratedColumns(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(*string) = validID
		*dest[1].(*float64) = 3000.46
		*dest[2].(*time.Time) = now
		*dest[3].(*time.Time) = now
		return nil
	}}}
	e := &entity.Employee{FirstName: "A", LastName: "B", Email: "a@x.co", Department: "Eng", Salary: 3000.456}
	require.NoError(t, NewEmployeeRepository(db).Create(context.Background(), e))
	assert.Equal(t, validID, e.ID)
	assert.Equal(t, 3000.46, e.Salary)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, []any{"A", "B", "a@x.co", "Eng", 3000.456}, db.lastArgs)
	assert.Contains(t, db.lastSQL, "RETURNING id, salary, created_at, updated_at")
}

func TestUpdateScansStoredSalary(t *testing.T) {
	now := time.Now().UTC()
	db := &fakeDB{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(*float64) = 10.01
		*dest[1].(*time.Time) = now
		return nil
	}}}
	e := &entity.Employee{ID: validID, FirstName: "A", LastName: "B", Email: "a@x.co", Department: "Eng", Salary: 10.005}
	require.NoError(t, NewEmployeeRepository(db).Update(context.Background(), e))
	assert.Equal(t, 10.01, e.Salary)
	assert.Equal(t, now, e.UpdatedAt)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}
	err := NewEmployeeRepository(db).Update(context.Background(), &entity.Employee{ID: validID})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("DELETE 0")}
	r := NewEmployeeRepository(db)
	assert.ErrorIs(t, r.Delete(context.Background(), validID), repository.ErrNotFound)

	db.execTag = pgconn.NewCommandTag("DELETE 1")
	assert.NoError(t, r.Delete(context.Background(), validID))

	db.execErr = errors.New("conn reset")
	err := r.Delete(context.Background(), validID)
	assert.ErrorContains(t, err, "conn reset")
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestAuditSinkInsertsEntry(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	err := NewAuditSink(db).Write(context.Background(), audit.Entry{
		Timestamp: ts, Action: "create_saved", Message: "m", EmployeeID: validID, RequestID: "r1",
	})
	require.NoError(t, err)
	assert.Contains(t, db.lastSQL, "INSERT INTO audit_logs")
	assert.Equal(t, []any{ts, "create_saved", "m", validID, "r1"}, db.lastArgs)
}
