// Package audit records operational messages about employee changes.
package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/pkg/helpers"
)

// Entry is one audit record.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Message    string    `json:"message"`
	EmployeeID string    `json:"employee_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Sink persists entries somewhere.
type Sink interface {
	Name() string
	Write(ctx context.Context, e Entry) error
}

// Logger fans entries out to every sink. A failing sink is logged and
// skipped; callers never see audit errors.
type Logger struct {
	sinks  []Sink
	logger *logrus.Logger
	now    func() time.Time
}

func NewLogger(logger *logrus.Logger, sinks ...Sink) *Logger {
	return &Logger{sinks: sinks, logger: logger, now: time.Now}
}

func (l *Logger) Log(ctx context.Context, action, employeeID, message string) {
	e := Entry{
		Timestamp:  l.now().UTC(),
		Action:     action,
		Message:    message,
		EmployeeID: employeeID,
		RequestID:  helpers.RequestIDFrom(ctx),
	}
	for _, s := range l.sinks {
		if err := s.Write(ctx, e); err != nil {
			l.logger.WithError(err).WithFields(logrus.Fields{
				"sink":   s.Name(),
				"action": action,
			}).Warn("audit sink write failed")
		}
	}
}

// LogrusSink writes "[AUDIT] <message>" lines through logrus.
type LogrusSink struct {
	Logger *logrus.Logger
}

func (LogrusSink) Name() string { return "log" }

func (s LogrusSink) Write(_ context.Context, e Entry) error {
	fields := logrus.Fields{"audit_action": e.Action}
	if e.EmployeeID != "" {
		fields["employee_id"] = e.EmployeeID
	}
	if e.RequestID != "" {
		fields["request_id"] = e.RequestID
	}
	s.Logger.WithFields(fields).WithTime(e.Timestamp).Info("[AUDIT] " + e.Message)
	return nil
}
