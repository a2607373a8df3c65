package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Amount float64 `json:"amount" validate:"money"`
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct(sample{Email: "nope", Amount: -1})
	require.Error(t, err)

	fields := Fields(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "name is required", fields[0].Message)
	assert.Equal(t, "email must be a valid email", fields[1].Message)
	assert.Equal(t, "amount must not be negative", fields[2].Message)
}

func TestSummaryJoinsInOrder(t *testing.T) {
	err := Struct(sample{Name: "a", Email: "bad"})
	assert.Equal(t, "Validation failed: email must be a valid email", Summary(err))
}

func TestMoneyUpperBound(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "a", Email: "a@b.co", Amount: 9999999999.99}))

	err := Struct(sample{Name: "a", Email: "a@b.co", Amount: 1e10})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: amount must be at most 9999999999.99", Summary(err))
}

func TestValidStructPasses(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "a", Email: "a@b.co", Amount: 0}))
}
