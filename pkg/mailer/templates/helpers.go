package templates

import (
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/employee-management-api/config"
)

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithEmployeeID(id string) Option { return func(d *EmailData) { d.EmployeeID = id } }

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// NewBaseEmailData fills the company fields from config and applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,
		SupportURL:     cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewEmployeeCreatedData builds the payload for the employee_created template.
func NewEmployeeCreatedData(cfg *config.Config, firstName, lastName, email, department string, salary float64, opts ...Option) map[string]any {
	name := strings.TrimSpace(firstName + " " + lastName)
	d := NewBaseEmailData(cfg, EmployeeCreated, name, email, opts...)
	d.FirstName = firstName
	d.Department = department
	d.Salary = salary
	d.SalaryText = FormatMoney(salary)
	return ToMap(d)
}
