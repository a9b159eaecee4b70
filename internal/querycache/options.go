package querycache

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 5 * time.Minute
	DefaultRetry     = 2
)

type Fetcher func(ctx context.Context) (any, error)

// Decoder rebuilds typed data from a persisted snapshot.
type Decoder func(raw []byte) (any, error)

// Options tune a single query. Zero fields fall back to the client defaults.
type Options struct {
	StaleTime  time.Duration
	GCTime     time.Duration
	Retry      int
	NoRetry    bool
	RetryDelay func(attempt int) time.Duration
	Retryable  func(error) bool
}

func (o Options) merge(defaults Options) Options {
	out := defaults
	if o.StaleTime > 0 {
		out.StaleTime = o.StaleTime
	}
	if o.GCTime > 0 {
		out.GCTime = o.GCTime
	}
	if o.Retry > 0 {
		out.Retry = o.Retry
	}
	if o.NoRetry {
		out.Retry = 0
	}
	if o.RetryDelay != nil {
		out.RetryDelay = o.RetryDelay
	}
	if o.Retryable != nil {
		out.Retryable = o.Retryable
	}
	return out
}

// ExponentialDelay doubles from one second and caps at thirty.
func ExponentialDelay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * time.Second
	if delay > 30*time.Second {
		return 30 * time.Second
	}
	return delay
}

func defaultOptions() Options {
	return Options{
		StaleTime:  DefaultStaleTime,
		GCTime:     DefaultGCTime,
		Retry:      DefaultRetry,
		RetryDelay: ExponentialDelay,
		Retryable:  apierr.IsRetryable,
	}
}

// Query describes what to fetch for a key.
type Query struct {
	Key     Key
	Fn      Fetcher
	Decode  Decoder
	Options Options
}

type Option func(*Client)

func WithDefaults(opts Options) Option {
	return func(c *Client) { c.defaults = opts.merge(c.defaults) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithSnapshotStore(store ports.SnapshotStore) Option {
	return func(c *Client) { c.snapshots = store }
}

func WithJanitorInterval(interval time.Duration) Option {
	return func(c *Client) { c.janitorInterval = interval }
}
