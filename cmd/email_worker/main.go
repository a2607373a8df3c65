package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	rc, err := helpers.NewRabbitClient(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer rc.Close()

	msgs, err := rc.Consume("", 16)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	worker := &mailer.Worker{
		Sender:  mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		Logger:  logger,
		Timeout: cfg.NotifyTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	closed := rc.Closed()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			settle(msg, worker.Handle(ctx, msg.Body), logger)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	select {
	case <-stop:
		logger.Info("shutting down...")
	case err := <-closed:
		logger.WithField("reason", err).Error("amqp connection closed")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func settle(msg amqp.Delivery, outcome mailer.Outcome, logger *logrus.Logger) {
	var err error
	switch outcome {
	case mailer.Ack:
		err = msg.Ack(false)
	case mailer.Requeue:
		err = msg.Nack(false, true)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		logger.WithError(err).WithField("outcome", outcome.String()).Warn("settle delivery failed")
	}
}
