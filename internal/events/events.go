package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/resumatch/pkg/logx"
	"github.com/streadway/amqp"
)

const DefaultExchange = "analysis_events"

// channel is the subset of *amqp.Channel used for publishing
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON events on a topic exchange.
// A fresh channel is opened per message; amqp channels are not safe for concurrent use.
type AMQPPublisher struct {
	open     func() (channel, error)
	exchange string
	closer   func() error
}

// Dial connects to the broker and declares the topic exchange
func Dial(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	if exchange == "" {
		exchange = DefaultExchange
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	p := newPublisher(func() (channel, error) { return conn.Channel() }, exchange)
	p.closer = conn.Close
	return p, nil
}

func newPublisher(open func() (channel, error), exchange string) *AMQPPublisher {
	return &AMQPPublisher{open: open, exchange: exchange}
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, routingKey string, payload any) error {
	logx.Debug("event dropped", "routing_key", routingKey)
	return nil
}
