// Package llm wraps the chat-completion providers behind one interface.
// Clients are stateless and safe for concurrent use; transient API errors
// (429, 5xx) are retried with exponential backoff before surfacing.
package llm

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/zenark/exambuddy/internal/model"
)

// Request is one chat-completion call: a system prompt, the running
// history and the new user turn.
type Request struct {
	System      string
	History     []model.Message
	User        string
	Temperature float32
	MaxTokens   int
}

// Client is implemented by each model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type retryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	jitter       float64
}

var defaultRetry = retryPolicy{
	maxAttempts:  3,
	initialDelay: 500 * time.Millisecond,
	maxDelay:     4 * time.Second,
	multiplier:   2,
	jitter:       0.2,
}

// do runs fn up to maxAttempts times, backing off between attempts while
// retryable reports the error as transient. The context cancels the wait.
func (p retryPolicy) do(ctx context.Context, retryable func(error) bool, fn func() error) error {
	delay := p.initialDelay
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == p.maxAttempts-1 {
			break
		}

		sleep := delay
		if p.jitter > 0 {
			frac := 1 + p.jitter*(rand.Float64()*2-1)
			sleep = time.Duration(float64(delay) * frac)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		delay = time.Duration(float64(delay) * p.multiplier)
		if delay > p.maxDelay {
			delay = p.maxDelay
		}
	}
	return err
}
