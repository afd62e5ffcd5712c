package retry

import (
	"context"
	"errors"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/domain"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

var (
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	ErrContextCanceled     = errors.New("context canceled")
)

// Config bounds a retried operation. Attempts are spaced by a fixed Pause;
// there is no backoff.
type Config struct {
	MaxAttempts int
	Pause       time.Duration
	IsRetryable func(error) bool
	OnRetry     func(ctx context.Context, attempt int, err error)
}

type Option func(*Config)

func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

func WithPause(d time.Duration) Option {
	return func(c *Config) {
		c.Pause = d
	}
}

func WithIsRetryable(fn func(error) bool) Option {
	return func(c *Config) {
		c.IsRetryable = fn
	}
}

func WithOnRetry(fn func(ctx context.Context, attempt int, err error)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: domain.DefaultLoginAttempts,
		Pause:       0,
		IsRetryable: DefaultIsRetryable,
		OnRetry:     defaultOnRetry,
	}
}

func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func defaultOnRetry(ctx context.Context, attempt int, err error) {
	logger.FromContext(ctx).Warn("attempt failed, retrying", "attempt", attempt, "error", err)
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempt ceiling is reached. fn receives the 1-based attempt number.
func Do(ctx context.Context, fn func(ctx context.Context, attempt int) error, opts ...Option) error {
	_, err := DoWithResult(ctx, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, fn(ctx, attempt)
	}, opts...)
	return err
}

func DoWithResult[T any](ctx context.Context, fn func(ctx context.Context, attempt int) (T, error), opts ...Option) (T, error) {
	var zero T

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = DefaultIsRetryable
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, errors.Join(ErrContextCanceled, err)
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.IsRetryable(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(ctx, attempt, err)
		}
		if cfg.Pause > 0 {
			timer := time.NewTimer(cfg.Pause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, errors.Join(ErrContextCanceled, ctx.Err())
			case <-timer.C:
			}
		}
	}

	return zero, errors.Join(ErrMaxAttemptsExceeded, lastErr)
}
