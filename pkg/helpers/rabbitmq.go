package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareQueue declares the durable, non-exclusive queue shared by the API
// publisher and the email worker.
func DeclareQueue(ch *amqp.Channel, name string) error {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

// RabbitPublisher sends JSON jobs to one queue over the default exchange.
// Publishes are serialised on the single channel.
type RabbitPublisher struct {
	Queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	p := &RabbitPublisher{Queue: queue, conn: conn}
	if p.ch, err = conn.Channel(); err != nil {
		p.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := DeclareQueue(p.ch, queue); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Close is safe on a nil or partially built publisher.
func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if ch := p.ch; ch != nil {
		_ = ch.Close()
	}
	if conn := p.conn; conn != nil {
		_ = conn.Close()
	}
}

// PublishJSON marshals body and publishes it as a persistent message.
func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.Queue, false, false, msg)
}
