package application

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/domain/entity"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
	mailtpl "github.com/oksasatya/employee-management-api/pkg/mailer/templates"
)

// TaskRunner runs work in the background. *mailer.Dispatcher satisfies it.
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

// EmployeeNotifier sends the welcome email for new employees.
type EmployeeNotifier struct {
	Cfg       *config.Config
	Runner    TaskRunner
	Transport mailer.Transport
}

func NewEmployeeNotifier(cfg *config.Config, runner TaskRunner, transport mailer.Transport) *EmployeeNotifier {
	return &EmployeeNotifier{Cfg: cfg, Runner: runner, Transport: transport}
}

func (n *EmployeeNotifier) NotifyCreated(e *entity.Employee) {
	if e == nil || n.Transport == nil {
		return
	}
	emp := e.Clone()
	n.Runner.Submit("employee_created:"+emp.ID, func(ctx context.Context) error {
		job := mailer.EmailJob{
			To:       emp.Email,
			Template: mailtpl.EmployeeCreated,
			Data: mailtpl.NewEmployeeCreatedData(n.Cfg, emp.FirstName, emp.LastName, emp.Email, emp.Department, emp.Salary,
				mailtpl.WithEmployeeID(emp.ID), mailtpl.WithTime(time.Now())),
		}
		if err := n.Transport.Deliver(ctx, job); err != nil {
			return fmt.Errorf("failed to send email notification to %s: %w", emp.Email, err)
		}
		return nil
	})
}
