package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/internal/domain/repository"
)

// DBTX is the subset of *pgxpool.Pool used by the repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const employeeColumns = `id, first_name, last_name, email, department, salary, created_at, updated_at`

type EmployeeRepository struct {
	db DBTX
}

func NewEmployeeRepository(db DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO employees (first_name, last_name, email, department, salary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, salary, created_at, updated_at
	`, e.FirstName, e.LastName, e.Email, e.Department, e.Salary)

	// salary is read back because NUMERIC(12,2) rounds it to cents
	if err := row.Scan(&e.ID, &e.Salary, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	// ids are UUIDs; anything else can never match and would only produce a cast error
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	return e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *entity.Employee) error {
	row := r.db.QueryRow(ctx, `
		UPDATE employees
		SET first_name = $1, last_name = $2, email = $3, department = $4, salary = $5, updated_at = now()
		WHERE id = $6
		RETURNING salary, updated_at
	`, e.FirstName, e.LastName, e.Email, e.Department, e.Salary, e.ID)

	if err := row.Scan(&e.Salary, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update employee %s: %w", e.ID, err)
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*entity.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	e := &entity.Employee{}
	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.Salary,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)
