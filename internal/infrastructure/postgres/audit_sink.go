package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/employee-management-api/pkg/audit"
)

// AuditSink appends audit entries to the audit_logs table.
type AuditSink struct {
	db DBTX
}

func NewAuditSink(db DBTX) *AuditSink {
	return &AuditSink{db: db}
}

func (*AuditSink) Name() string { return "postgres" }

func (s *AuditSink) Write(ctx context.Context, e audit.Entry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO audit_logs (occurred_at, action, message, employee_id, request_id)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, NULLIF($5, ''))
	`, e.Timestamp, e.Action, e.Message, e.EmployeeID, e.RequestID)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
