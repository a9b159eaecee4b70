package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// RabbitMQPublisher fans invalidation events out to every console bound to the exchange.
type RabbitMQPublisher struct {
	conn        *amqp.Connection
	ch          *amqp.Channel
	exchange    string
	maxAttempts int
	logger      *slog.Logger
}

var _ ports.EventPublisher = (*RabbitMQPublisher)(nil)

func NewMQPublisher(amqpConnection *amqp.Connection, amqpChannel *amqp.Channel, exchange string, maxAttempts int, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if err := declareExchange(amqpChannel, exchange); err != nil {
		_ = amqpChannel.Close()
		_ = amqpConnection.Close()
		return nil, err
	}
	if err := amqpChannel.Confirm(false); err != nil {
		_ = amqpChannel.Close()
		_ = amqpConnection.Close()
		return nil, fmt.Errorf("failed to enable publish confirms: %w", err)
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	return &RabbitMQPublisher{
		conn:        amqpConnection,
		ch:          amqpChannel,
		exchange:    exchange,
		maxAttempts: maxAttempts,
		logger:      logger,
	}, nil
}

// DialPublisher opens a dedicated connection for publishing.
func DialPublisher(config *RabbitMQConfig, logger *slog.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.DialConfig(config.URL(), amqp.Config{
		Heartbeat: config.HeartbeatInterval,
		Dial:      amqp.DefaultDial(config.ConnectionTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return NewMQPublisher(conn, ch, config.Exchange, config.MaxRetryAttempts, logger)
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event ports.InvalidationEvent) error {
	message := NewInvalidationMessage(event)
	if err := p.PublishWithRetry(ctx, message, p.maxAttempts); err != nil {
		return err
	}
	p.logger.Debug("Published invalidation", "id", message.ID, "resource", event.Resource, "kind", event.Kind)
	return nil
}

func (p *RabbitMQPublisher) publish(ctx context.Context, message Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	pub := amqp.Publishing{
		ContentType: "application/json",
		MessageId:   message.ID,
		Type:        message.Type,
		Body:        b,
		Timestamp:   time.Now(),
		// Invalidations are only useful to consoles that are running now.
		DeliveryMode: amqp.Transient,
	}
	return p.ch.PublishWithContext(ctx, p.exchange, "", false, false, pub)
}

func (p *RabbitMQPublisher) Close() error {
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		if closeErr := p.conn.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func backoffDelay(attempt int) time.Duration {
	switch attempt {
	case 1:
		return 200 * time.Millisecond
	case 2:
		return 1 * time.Second
	default:
		return 5 * time.Second
	}
}

func (p *RabbitMQPublisher) PublishWithRetry(ctx context.Context, message Message, maxAttempts int) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = p.publish(ctx, message)
		if err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context canceled: %w", err)
		case <-time.After(backoffDelay(attempt)):
		}
	}
	return fmt.Errorf("publish failed after %d attempts: %w", maxAttempts, err)
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return nil
}
