package retryx

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy bounds how often a call is re-attempted
type Policy struct {
	MaxRetries uint64
	Delay      time.Duration
}

// Func is a retryable unit of work; attempt starts at 0
type Func[T any] func(ctx context.Context, attempt int) (T, error)

// Retryable marks err as worth another attempt. Unmarked errors stop the loop.
func Retryable(err error) error {
	return retry.RetryableError(err)
}

// Wrap decorates fn so it runs at most 1+MaxRetries times
func Wrap[T any](p Policy, fn Func[T]) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return Do(ctx, p, fn)
	}
}

// Do runs fn under p and returns the last value and error
func Do[T any](ctx context.Context, p Policy, fn Func[T]) (T, error) {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}
	backoff := retry.WithMaxRetries(p.MaxRetries, retry.NewConstant(delay))

	var (
		result  T
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, err := fn(ctx, attempt)
		attempt++
		result = v
		return err
	})
	return result, err
}
