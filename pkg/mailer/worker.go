package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Worker turns queued EmailJob payloads into sent mail.
type Worker struct {
	Sender  Sender
	Logger  *logrus.Logger
	Timeout time.Duration
}

// Handle decodes, renders and sends one message. Payloads that can never
// succeed are dropped; send failures are requeued.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job payload")
		return Drop
	}

	subject, text, html, err := Compose(job)
	if err != nil {
		entry := w.Logger.WithError(err).WithField("template", job.Template)
		if errors.Is(err, ErrInvalidJob) {
			entry.Warn("invalid email job")
		} else {
			entry.Error("render email failed")
		}
		return Drop
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("to", job.To).Error("send failed")
		return Requeue
	}
	w.Logger.WithField("to", job.To).Info("email sent")
	return Ack
}
