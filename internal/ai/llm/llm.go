package llm

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyResponse is returned when the model produced no candidate text
var ErrEmptyResponse = errors.New("llm: empty response")

// Provider is a single-turn completion backend
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

type timeoutProvider struct {
	Provider
	timeout time.Duration
}

// WithTimeout bounds every call to p; d <= 0 returns p unchanged
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{Provider: p, timeout: d}
}

func (t *timeoutProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Complete(ctx, system, prompt)
}
