package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"
)

func TestNewProviderSwitch(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{"openai", ProviderOpenAI, false},
		{"anthropic", ProviderAnthropic, false},
		{"empty defaults to openai", "", false},
		{"unknown", "cohere", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.provider, "test-key", "", "")
			if tt.wantErr {
				if err == nil {
					t.Errorf("New(%q) should fail", tt.provider)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.provider, err)
			}
			if client == nil {
				t.Fatalf("New(%q) returned nil client", tt.provider)
			}
		})
	}
}

func TestNewDefaultModels(t *testing.T) {
	c, err := New(ProviderOpenAI, "k", "", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.(*OpenAI).model; got != DefaultOpenAIModel {
		t.Errorf("default openai model = %q, want %q", got, DefaultOpenAIModel)
	}

	c, err = New(ProviderAnthropic, "k", "", "claude-3-7-sonnet-latest")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.(*Anthropic).model; got != "claude-3-7-sonnet-latest" {
		t.Errorf("explicit model = %q, want claude-3-7-sonnet-latest", got)
	}
}

func TestRetryPolicy(t *testing.T) {
	fast := retryPolicy{
		maxAttempts:  3,
		initialDelay: time.Millisecond,
		maxDelay:     2 * time.Millisecond,
		multiplier:   2,
	}
	always := func(error) bool { return true }
	never := func(error) bool { return false }

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := fast.do(context.Background(), always, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected success on third attempt, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := fast.do(context.Background(), always, func() error {
			calls++
			return errors.New("still failing")
		})
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if calls != fast.maxAttempts {
			t.Errorf("expected %d calls, got %d", fast.maxAttempts, calls)
		}
	})

	t.Run("non-retryable fails immediately", func(t *testing.T) {
		calls := 0
		err := fast.do(context.Background(), never, func() error {
			calls++
			return errors.New("fatal")
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("expected 1 call for non-retryable error, got %d", calls)
		}
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fast.do(ctx, always, func() error { return errors.New("transient") })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestOpenAIRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"plain error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := openaiRetryable(tt.err); got != tt.want {
				t.Errorf("openaiRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAnthropicRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http overload", &anthropic.RequestError{StatusCode: http.StatusServiceUnavailable}, true},
		{"http rate limit", &anthropic.RequestError{StatusCode: http.StatusTooManyRequests}, true},
		{"http bad request", &anthropic.RequestError{StatusCode: http.StatusBadRequest}, false},
		{"api overloaded", &anthropic.APIError{Type: "overloaded_error"}, true},
		{"api invalid request", &anthropic.APIError{Type: "invalid_request_error"}, false},
		{"plain error", errors.New("eof"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := anthropicRetryable(tt.err); got != tt.want {
				t.Errorf("anthropicRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
