package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-management-api/config"
	mailtpl "github.com/oksasatya/employee-management-api/pkg/mailer/templates"
)

type sentMail struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

type fakePublisher struct {
	bodies []any
	err    error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.bodies = append(f.bodies, body)
	return nil
}

func employeeJob(t *testing.T) []byte {
	t.Helper()
	job := EmailJob{
		To:       "ada@example.com",
		Template: mailtpl.EmployeeCreated,
		Data:     mailtpl.NewEmployeeCreatedData(&config.Config{CompanyName: "Company"}, "Ada", "Lovelace", "ada@example.com", "Engineering", 1000),
	}
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorkerHandle(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("renders and acks", func(t *testing.T) {
		s := &fakeSender{}
		w := &Worker{Sender: s, Logger: logger}
		assert.Equal(t, Ack, w.Handle(context.Background(), employeeJob(t)))
		require.Len(t, s.sent, 1)
		assert.Equal(t, "Welcome to the Company!", s.sent[0].subject)
		assert.Contains(t, s.sent[0].text, "Hello Ada,")
	})

	t.Run("requeues on send failure", func(t *testing.T) {
		w := &Worker{Sender: &fakeSender{err: errors.New("503")}, Logger: logger}
		assert.Equal(t, Requeue, w.Handle(context.Background(), employeeJob(t)))
	})

	t.Run("drops bad json", func(t *testing.T) {
		w := &Worker{Sender: &fakeSender{}, Logger: logger}
		assert.Equal(t, Drop, w.Handle(context.Background(), []byte("{not json")))
	})

	t.Run("drops unknown template", func(t *testing.T) {
		w := &Worker{Sender: &fakeSender{}, Logger: logger}
		body := []byte(`{"to":"a@b.co","template":"nope"}`)
		assert.Equal(t, Drop, w.Handle(context.Background(), body))
	})

	t.Run("plain job without template", func(t *testing.T) {
		s := &fakeSender{}
		w := &Worker{Sender: s, Logger: logger}
		body := []byte(`{"to":"a@b.co","subject":"hi","text":"there"}`)
		assert.Equal(t, Ack, w.Handle(context.Background(), body))
		assert.Equal(t, "hi", s.sent[0].subject)
	})
}

func TestTransports(t *testing.T) {
	logger, hook := test.NewNullLogger()
	job := EmailJob{To: "a@b.co", Subject: "s", Text: "t"}

	require.NoError(t, LogTransport{Logger: logger}.Deliver(context.Background(), job))
	assert.Equal(t, "email notification sent to a@b.co", hook.LastEntry().Message)

	pub := &fakePublisher{}
	require.NoError(t, QueueTransport{Pub: pub}.Deliver(context.Background(), job))
	assert.Len(t, pub.bodies, 1)

	err := QueueTransport{Pub: pub}.Deliver(context.Background(), EmailJob{})
	assert.ErrorIs(t, err, ErrInvalidJob)

	s := &fakeSender{}
	require.NoError(t, DirectTransport{Sender: s}.Deliver(context.Background(), job))
	assert.Equal(t, "a@b.co", s.sent[0].to)

	err = DirectTransport{Sender: &fakeSender{err: errors.New("x")}}.Deliver(context.Background(), job)
	assert.Error(t, err)
}
