package mailer

import (
	"errors"
	"strings"

	mailtpl "github.com/oksasatya/employee-management-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or Subject+Text (and optionally HTML) must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "employee_created"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrInvalidJob = errors.New("invalid email job")

// Compose resolves the final subject and bodies of a job, rendering its
// template when one is named.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", errors.Join(ErrInvalidJob, errors.New("missing recipient"))
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errors.Join(ErrInvalidJob, errors.New("missing subject or body"))
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	if !mailtpl.Known(job.Template) {
		return "", "", "", errors.Join(ErrInvalidJob, errors.New("unknown template "+job.Template))
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || v == "" {
		job.Data["RecipientEmail"] = job.To
	}
	return mailtpl.Render(job.Template, job.Data)
}
