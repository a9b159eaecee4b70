package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

var errConsumerClosed = errors.New("consumer is closed")

type ConsumerPort interface {
	Consume() (<-chan amqp.Delivery, error)
	Close() error
	HealthCheck() error
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Exchange string
	// QueueName is optional; an empty name gets a server-named exclusive queue per console.
	QueueName            string
	PrefetchCount        int
	MaxRetryAttempts     int
	RetryBaseDelay       time.Duration
	MaxRetryDelay        time.Duration
	ConnectionTimeout    time.Duration
	HeartbeatInterval    time.Duration
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
}

func NewRabbitMQConfig(host, username, password, exchange string, port, prefetchCount, maxRetryAttempts int) *RabbitMQConfig {
	return &RabbitMQConfig{
		Host:                 host,
		Port:                 port,
		Username:             username,
		Password:             password,
		Exchange:             exchange,
		PrefetchCount:        prefetchCount,
		MaxRetryAttempts:     maxRetryAttempts,
		RetryBaseDelay:       time.Second,
		MaxRetryDelay:        30 * time.Second,
		ConnectionTimeout:    10 * time.Second,
		HeartbeatInterval:    10 * time.Second,
		ReconnectInterval:    5 * time.Second,
		MaxReconnectAttempts: 5,
	}
}

func (c *RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.Username, c.Password, c.Host, c.Port)
}

func (c *RabbitMQConfig) dial() (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(c.URL(), amqp.Config{
		Heartbeat: c.HeartbeatInterval,
		Dial:      amqp.DefaultDial(c.ConnectionTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	return conn, nil
}

// subscription is one live connection with its queue bound to the invalidation exchange.
type subscription struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func (s *subscription) alive() bool {
	return s != nil && !s.conn.IsClosed() && !s.channel.IsClosed()
}

func (s *subscription) close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if err := s.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
	}
	if !s.conn.IsClosed() {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RabbitMQConsumer keeps one subscription to the invalidation exchange alive, redialing in the
// background whenever the broker drops it.
type RabbitMQConsumer struct {
	config  *RabbitMQConfig
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker

	mu     sync.RWMutex
	sub    *subscription
	closed atomic.Bool
	cancel context.CancelFunc
}

func NewRabbitMQConsumer(config *RabbitMQConfig, logger *slog.Logger) *RabbitMQConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	consumer := &RabbitMQConsumer{
		config: config,
		logger: logger,
		cancel: cancel,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "rabbitmq-invalidations",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Info("Circuit breaker state changed", "name", name, "from", from, "to", to)
			},
		}),
	}

	if err := consumer.subscribe(ctx); err != nil {
		logger.Error("Initial invalidation subscription failed", "error", err)
	}
	go consumer.supervise(ctx)

	return consumer
}

// subscribe dials until a subscription is established, maxReconnectAttempts is reached or ctx ends.
func (c *RabbitMQConsumer) subscribe(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= c.config.MaxReconnectAttempts; attempt++ {
		if c.closed.Load() {
			return errConsumerClosed
		}

		sub, err := c.open()
		if err == nil {
			c.mu.Lock()
			previous := c.sub
			c.sub = sub
			c.mu.Unlock()
			_ = previous.close()

			c.logger.Info("Subscribed to invalidations", "exchange", c.config.Exchange, "queue", sub.queue, "attempt", attempt)
			return nil
		}

		lastErr = err
		c.logger.Warn("Invalidation subscription attempt failed",
			"attempt", attempt,
			"max_attempts", c.config.MaxReconnectAttempts,
			"error", err)

		if attempt == c.config.MaxReconnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.calculateBackoffDelay(attempt)):
		}
	}
	return fmt.Errorf("failed to subscribe after %d attempts: %w", c.config.MaxReconnectAttempts, lastErr)
}

func (c *RabbitMQConsumer) open() (*subscription, error) {
	conn, err := c.config.dial()
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	sub := &subscription{conn: conn, channel: ch}

	if err := ch.Qos(c.config.PrefetchCount, 0, false); err != nil {
		_ = sub.close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := declareExchange(ch, c.config.Exchange); err != nil {
		_ = sub.close()
		return nil, err
	}

	// A named queue survives restarts; the default is private to this process.
	durable := c.config.QueueName != ""
	q, err := ch.QueueDeclare(c.config.QueueName, durable, !durable, !durable, false, nil)
	if err != nil {
		_ = sub.close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", c.config.Exchange, false, nil); err != nil {
		_ = sub.close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", q.Name, err)
	}
	sub.queue = q.Name
	return sub, nil
}

// Consume starts a delivery stream on the current subscription. The channel closes when the
// connection drops; callers call Consume again once HealthCheck passes.
func (c *RabbitMQConsumer) Consume() (<-chan amqp.Delivery, error) {
	if c.closed.Load() {
		return nil, errConsumerClosed
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		c.mu.RLock()
		defer c.mu.RUnlock()

		if !c.sub.alive() {
			return nil, fmt.Errorf("no live subscription")
		}
		deliveries, err := c.sub.channel.Consume(c.sub.queue, "", false, false, false, false, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to start consuming: %w", err)
		}
		return deliveries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(<-chan amqp.Delivery), nil
}

func (c *RabbitMQConsumer) HealthCheck() error {
	if c.closed.Load() {
		return errConsumerClosed
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.sub.alive() {
		return fmt.Errorf("no live subscription")
	}
	return nil
}

func (c *RabbitMQConsumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()

	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if err := sub.close(); err != nil {
		return err
	}
	c.logger.Info("Invalidation consumer closed")
	return nil
}

func (c *RabbitMQConsumer) calculateBackoffDelay(attempt int) time.Duration {
	delay := c.config.RetryBaseDelay * time.Duration(1<<uint(attempt-1))
	return min(delay, c.config.MaxRetryDelay)
}

// supervise resubscribes on every tick where the subscription is gone.
func (c *RabbitMQConsumer) supervise(ctx context.Context) {
	ticker := time.NewTicker(c.config.ReconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.HealthCheck()
			if err == nil {
				continue
			}
			if errors.Is(err, errConsumerClosed) {
				return
			}
			c.logger.Warn("Invalidation subscription lost, resubscribing", "error", err)
			if err := c.subscribe(ctx); err != nil {
				c.logger.Error("Resubscribe failed", "error", err)
			}
		}
	}
}
