package helpers

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitClient owns one AMQP connection and channel bound to a durable queue.
// The API publishes email jobs through it and the email worker consumes them.
type RabbitClient struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

func NewRabbitClient(url, queue string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitClient{conn: conn, ch: ch, Queue: queue}, nil
}

func (p *RabbitClient) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishJSON publishes a persistent JSON message to the queue.
func (p *RabbitClient) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
}

// Consume starts a manual-ack consumer with the given prefetch.
func (p *RabbitClient) Consume(consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if prefetch > 0 {
		if err := p.ch.Qos(prefetch, 0, false); err != nil {
			return nil, err
		}
	}
	return p.ch.Consume(p.Queue, consumer, false, false, false, false, nil)
}

// Closed is signalled when the underlying connection goes away.
func (p *RabbitClient) Closed() <-chan *amqp.Error {
	return p.conn.NotifyClose(make(chan *amqp.Error, 1))
}
