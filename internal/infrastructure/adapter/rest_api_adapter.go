package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/victoragudo/hotel-management-system/console/internal/domain/apierr"
)

// TokenSource yields the bearer token for the next request.
type TokenSource interface {
	Token() (string, error)
}

// RESTAPIAdapter is the remote collection client of one API domain (hotels or bookings). It owns no
// state beyond connection plumbing.
type RESTAPIAdapter struct {
	name           string
	client         *http.Client
	baseURL        string
	tokens         TokenSource
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retryConfig    *retryConfig
	headers        map[string]string
	logger         *slog.Logger
}

type retryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

type APIConfig struct {
	Name           string
	BaseURL        string
	Timeout        time.Duration
	RateLimit      float64
	BurstLimit     int
	MaxRetries     int
	RetryInterval  time.Duration
	Headers        map[string]string
	CircuitBreaker *CircuitBreakerConfig
	Tokens         TokenSource
	Logger         *slog.Logger
}

type CircuitBreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	ReadyToTrip func(counts gobreaker.Counts) bool
}

func NewRESTAPIAdapter(config *APIConfig) *RESTAPIAdapter {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 20
	}
	if config.BurstLimit <= 0 {
		config.BurstLimit = 10
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
	}

	logger := config.Logger.With("api", config.Name)
	cbSettings := gobreaker.Settings{
		Name:     config.Name,
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}
	if cb := config.CircuitBreaker; cb != nil {
		cbSettings.MaxRequests = cb.MaxRequests
		if cb.Interval > 0 {
			cbSettings.Interval = cb.Interval
		}
		if cb.Timeout > 0 {
			cbSettings.Timeout = cb.Timeout
		}
		cbSettings.ReadyToTrip = cb.ReadyToTrip
	}
	if cbSettings.ReadyToTrip == nil {
		cbSettings.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	// Client errors and abandoned requests say nothing about the health of the API.
	cbSettings.IsSuccessful = func(err error) bool {
		if errors.Is(err, context.Canceled) {
			return true
		}
		var rejection *apierr.ServerRejection
		if errors.As(err, &rejection) {
			return !rejection.Retryable()
		}
		return err == nil
	}

	return &RESTAPIAdapter{
		name:           config.Name,
		client:         client,
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		tokens:         config.Tokens,
		rateLimiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.BurstLimit),
		circuitBreaker: gobreaker.NewCircuitBreaker(cbSettings),
		retryConfig: &retryConfig{
			MaxRetries: config.MaxRetries,
			BaseDelay:  config.RetryInterval,
			MaxDelay:   30 * time.Second,
			Multiplier: 2.0,
			Jitter:     true,
		},
		headers: config.Headers,
		logger:  logger,
	}
}

// Do implements ports.Transport. Paths are relative to the adapter base URL, e.g. "v1/hotels/".
func (c *RESTAPIAdapter) Do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if !idempotent(method) {
		return c.performRequest(ctx, method, url, body, out)
	}
	return c.executeWithRetry(ctx, func() error {
		return c.performRequest(ctx, method, url, body, out)
	})
}

func (c *RESTAPIAdapter) performRequest(ctx context.Context, method, url string, body, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	_, err := c.circuitBreaker.Execute(func() (any, error) {
		return nil, c.doHTTPRequest(ctx, method, url, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &apierr.NetworkError{Method: method, Path: url, Err: err}
	}
	return err
}

func (c *RESTAPIAdapter) doHTTPRequest(ctx context.Context, method, url string, requestBody, response any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		jsonData, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-ID", requestID)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		request.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	startTime := time.Now()
	httpResponse, err := c.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("HTTP request failed", "method", method, "url", url, "request_id", requestID, "error", err)
		return &apierr.NetworkError{Method: method, Path: url, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(httpResponse.Body)

	c.logger.Debug("API response received", "method", method, "url", url, "request_id", requestID,
		"status_code", httpResponse.StatusCode, "duration", time.Since(startTime))

	if httpResponse.StatusCode >= 400 {
		body, _ := io.ReadAll(httpResponse.Body)
		return apierr.ParseRejection(httpResponse.StatusCode, body)
	}

	if response != nil && httpResponse.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(httpResponse.Body).Decode(response); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *RESTAPIAdapter) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateRetryDelay(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err
		if !apierr.IsRetryable(err) {
			break
		}
		c.logger.Debug("Retrying request", "attempt", attempt+1, "error", err)
	}

	return lastErr
}

func (c *RESTAPIAdapter) calculateRetryDelay(attempt int) time.Duration {
	delay := time.Duration(float64(c.retryConfig.BaseDelay) * float64(attempt) * c.retryConfig.Multiplier)

	if delay > c.retryConfig.MaxDelay {
		delay = c.retryConfig.MaxDelay
	}

	if c.retryConfig.Jitter {
		jitter := float64(delay) * 0.1
		delay += time.Duration(jitter * (2*rand.Float64() - 1))
	}

	return delay
}

func (c *RESTAPIAdapter) BreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodPut:
		return true
	}
	return false
}
