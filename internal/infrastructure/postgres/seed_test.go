package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

var seedInsert = regexp.QuoteMeta("INSERT INTO employees (first_name, last_name, email, department, salary)")

func TestSeedEmployeesCountsInsertedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	emps := []entity.Employee{
		{FirstName: "A", LastName: "B", Email: "a@x.co", Department: "Eng", Salary: 1},
		{FirstName: "C", LastName: "D", Email: "c@x.co", Department: "Ops", Salary: 2},
	}

	mock.ExpectBegin()
	mock.ExpectExec(seedInsert).
		WithArgs("A", "B", "a@x.co", "Eng", 1.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(seedInsert).
		WithArgs("C", "D", "c@x.co", "Ops", 2.0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := SeedEmployees(context.Background(), db, emps)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedEmployeesRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(seedInsert).WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	_, err = SeedEmployees(context.Background(), db, DemoEmployees[:1])
	assert.ErrorContains(t, err, "relation does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}
