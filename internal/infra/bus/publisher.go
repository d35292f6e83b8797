// Package bus implements the outbound event publisher over a topic
// exchange. Delivery downstream is at-least-once; consumers must tolerate
// duplicates.
package bus

import (
	"context"
	"encoding/json"

	domainevents "device-reservation/internal/events"
	"device-reservation/internal/pkg/clock"
	"device-reservation/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	clock    clock.Clock
}

func NewPublisher(url, exchange string, clock clock.Clock) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "failed to dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to declare exchange")
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, clock: clock}, nil
}

// Publish wraps the payload in the shared envelope and sends it with the
// event type as routing key. The call is awaited so a broker failure
// propagates to the triggering handler instead of being dropped.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to marshal event payload")
	}

	envelope := domainevents.Envelope{
		ID:        uuid.NewString(),
		EventType: eventType,
		Data:      data,
		EventTime: p.clock.Now(),
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return errs.Wrap(err, "failed to marshal event envelope")
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   envelope.ID,
		Body:        body,
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish event")
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
