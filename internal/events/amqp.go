package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "service_orders"

type AMQP struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func DialAMQP(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQP{conn: conn, channel: ch}, nil
}

func (p *AMQP) Publish(ctx context.Context, e Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	return p.channel.PublishWithContext(
		ctx,
		Exchange,
		e.RoutingKey(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.OccurredAt,
			Body:         body,
		})
}

func (p *AMQP) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Connect dials the broker when url is set. Without a url, or when the
// broker is unreachable, events are discarded.
func Connect(url string) Publisher {
	if url == "" {
		return Nop{}
	}
	p, err := DialAMQP(url)
	if err != nil {
		slog.Error("failed to connect to broker, order events disabled", "error", err)
		return Nop{}
	}
	slog.Info("publishing order events", "exchange", Exchange)
	return p
}
