// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow; generation never fails because the broker is down.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/CkHanchey/pnrgov/internal/queue"
)

const edifactQueueName = "edifact.generated"

// Publisher sends events to a fixed broker URL.  An empty URL disables
// publishing entirely; Publish becomes a no-op.
type Publisher struct {
	url string
}

// New returns a Publisher for the given AMQP URL.
func New(url string) *Publisher { return &Publisher{url: url} }

// PublishEdifactGenerated publishes an EdifactGeneratedEvent to the
// edifact.generated queue.  The queue is declared durable and messages are
// marked persistent so they survive broker restarts.
func (p *Publisher) PublishEdifactGenerated(ctx context.Context, event q.EdifactGeneratedEvent) error {
	if p == nil || p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publish works regardless of consumer startup order.
	if _, err := ch.QueueDeclare(edifactQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", edifactQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
