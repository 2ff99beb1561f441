// Package supabase implements the repository ports over the Supabase
// REST (postgrest), auth (gotrue), and storage APIs.
package supabase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	apperrors "coursehub-backend/pkg/errors"
)

// Client wraps the Supabase SDK with a circuit breaker and deadline
// enforcement. The SDK itself has no context support, so calls run in a
// goroutine raced against the caller's context.
type Client struct {
	sb      *supa.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient connects to the Supabase project at url using the service
// key
func NewClient(url, serviceKey string, logger *zap.Logger) (*Client, error) {
	sb, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, apperrors.NewExternalError("supabase", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "supabase",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{sb: sb, breaker: breaker, logger: logger}, nil
}

// SDK exposes the underlying client for the storage and auth adapters
func (c *Client) SDK() *supa.Client {
	return c.sb
}

// execute runs one backend call through the breaker with the context's
// deadline enforced
func (c *Client) execute(ctx context.Context, operation string, fn func() ([]byte, int64, error)) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		data, err := c.breaker.Execute(func() (interface{}, error) {
			raw, _, err := fn()
			return raw, err
		})
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{data: data.([]byte)}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError(operation)
		}
		return nil, apperrors.Wrap(ctx.Err(), operation)
	case res := <-done:
		if res.err != nil {
			return nil, c.mapError(operation, res.err)
		}
		return res.data, nil
	}
}

func (c *Client) mapError(operation string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.NewExternalError("supabase", err).WithCode("CIRCUIT_OPEN")
	}
	if isNoRows(err) {
		return apperrors.NewNotFoundError(operation)
	}
	c.logger.Error("supabase call failed", zap.String("operation", operation), zap.Error(err))
	return apperrors.NewExternalError("supabase", err)
}

// isNoRows detects postgrest's no-rows-for-Single response
func isNoRows(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "PGRST116") || strings.Contains(msg, "0 rows")
}
