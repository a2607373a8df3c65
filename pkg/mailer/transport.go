package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transport hands a job to whatever delivers it.
type Transport interface {
	Deliver(ctx context.Context, job EmailJob) error
}

// Sender is the Mailgun surface the transports and worker need.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Publisher is the queue surface of helpers.RabbitClient.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// LogTransport renders the job and writes it to the log instead of sending it.
type LogTransport struct {
	Logger *logrus.Logger
}

func (t LogTransport) Deliver(_ context.Context, job EmailJob) error {
	subject, text, _, err := Compose(job)
	if err != nil {
		return err
	}
	t.Logger.WithFields(logrus.Fields{
		"to":       job.To,
		"subject":  subject,
		"template": job.Template,
	}).Info("email notification sent to " + job.To)
	t.Logger.Debug(text)
	return nil
}

// QueueTransport publishes jobs for cmd/email_worker to render and send.
type QueueTransport struct {
	Pub Publisher
}

func (t QueueTransport) Deliver(ctx context.Context, job EmailJob) error {
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidJob)
	}
	if err := t.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

// DirectTransport renders and sends in-process.
type DirectTransport struct {
	Sender Sender
}

func (t DirectTransport) Deliver(ctx context.Context, job EmailJob) error {
	subject, text, html, err := Compose(job)
	if err != nil {
		return err
	}
	if err := t.Sender.Send(ctx, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send email to %s: %w", job.To, err)
	}
	return nil
}
