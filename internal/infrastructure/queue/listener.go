package queue

import (
	"context"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

// EventHandler applies a remote invalidation and reports whether it was relevant.
type EventHandler interface {
	Handle(ctx context.Context, event ports.InvalidationEvent) bool
}

// InvalidationListener feeds deliveries from the consumer into the handler until its context ends.
type InvalidationListener struct {
	consumer   ConsumerPort
	handler    EventHandler
	logger     *slog.Logger
	retryDelay time.Duration
}

func NewInvalidationListener(consumer ConsumerPort, handler EventHandler, logger *slog.Logger, retryDelay time.Duration) *InvalidationListener {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	return &InvalidationListener{consumer: consumer, handler: handler, logger: logger, retryDelay: retryDelay}
}

// Run blocks until ctx is done. A closed delivery channel means the connection dropped; consumption
// restarts once the consumer has reconnected.
func (l *InvalidationListener) Run(ctx context.Context) error {
	for {
		messages, err := l.consumer.Consume()
		if err != nil {
			l.logger.Warn("Failed to start consuming invalidations", "error", err)
		} else {
			l.consumeMessages(ctx, messages)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *InvalidationListener) consumeMessages(ctx context.Context, messages <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				l.logger.Warn("Invalidation channel closed")
				return
			}
			l.processMessage(ctx, msg)
		}
	}
}

func (l *InvalidationListener) processMessage(ctx context.Context, msg amqp.Delivery) {
	message, err := DecodeMessage(msg.Body)
	if err != nil {
		l.logger.Warn("Discarding invalidation message", "message_id", msg.MessageId, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	handled := l.handler.Handle(ctx, message.Data)
	l.logger.Debug("Processed invalidation",
		"id", message.ID,
		"resource", message.Data.Resource,
		"handled", handled)
	_ = msg.Ack(false)
}
