package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

// DemoEmployees is the data set inserted by cmd/seed.
var DemoEmployees = []entity.Employee{
	{FirstName: "Ada", LastName: "Lovelace", Email: "ada.lovelace@example.com", Department: "Engineering", Salary: 125000},
	{FirstName: "Grace", LastName: "Hopper", Email: "grace.hopper@example.com", Department: "Engineering", Salary: 132000},
	{FirstName: "Katherine", LastName: "Johnson", Email: "katherine.johnson@example.com", Department: "Research", Salary: 118500},
	{FirstName: "Alan", LastName: "Turing", Email: "alan.turing@example.com", Department: "Research", Salary: 121000},
	{FirstName: "Margaret", LastName: "Hamilton", Email: "margaret.hamilton@example.com", Department: "Operations", Salary: 99000},
}

// SeedEmployees inserts every employee whose email is not stored yet and
// returns how many rows were added. It runs in one transaction.
func SeedEmployees(ctx context.Context, db *sql.DB, employees []entity.Employee) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, e := range employees {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO employees (first_name, last_name, email, department, salary)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM employees WHERE lower(email) = lower($3))
		`, e.FirstName, e.LastName, e.Email, e.Department, e.Salary)
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", e.Email, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", e.Email, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
