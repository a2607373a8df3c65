package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-management-api/config"
)

func TestRenderEmployeeCreated(t *testing.T) {
	cfg := &config.Config{CompanyName: "Company", AppName: "employee-management-api"}
	data := NewEmployeeCreatedData(cfg, "Ada", "Lovelace", "ada@example.com", "Engineering", 125000.5)

	subject, text, html, err := Render(EmployeeCreated, data)
	require.NoError(t, err)

	assert.Equal(t, "Welcome to the Company!", subject)
	assert.Contains(t, text, "Hello Ada,")
	assert.Contains(t, text, "Department: Engineering")
	assert.Contains(t, text, "Salary: $125,000.50")
	assert.Contains(t, text, "Best Regards,\nCompany HR")
	assert.Contains(t, html, "<td>Engineering</td>")
}

func TestRenderEscapesHTML(t *testing.T) {
	cfg := &config.Config{}
	data := NewEmployeeCreatedData(cfg, "<b>x</b>", "", "x@example.com", "R&D", 1)

	_, _, html, err := Render(EmployeeCreated, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, "R&amp;D")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("does_not_exist", nil)
	assert.Error(t, err)
	assert.False(t, Known("does_not_exist"))
	assert.True(t, Known(EmployeeCreated))
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:         "0.00",
		999.999:   "1,000.00",
		1234:      "1,234.00",
		1234567.8: "1,234,567.80",
		-45000.25: "-45,000.25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(in), "FormatMoney(%v)", in)
	}
}
