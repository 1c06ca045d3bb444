package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"citylift/internal/config"
)

const rabbitDialAttempts = 5

// NewRabbitMQ connects to RabbitMQ, retrying while the broker starts, and
// declares the durable topic exchange events are published to.
func NewRabbitMQ(ctx context.Context, cfg config.RabbitMQConfig) (*amqp091.Connection, *amqp091.Channel, error) {
	var conn *amqp091.Connection
	var err error

	for i := 0; i < rabbitDialAttempts; i++ {
		conn, err = amqp091.Dial(cfg.URL)
		if err == nil {
			break
		}
		log.Printf("RabbitMQ not ready, retrying... (%d/%d)", i+1, rabbitDialAttempts)

		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return conn, ch, nil
}
