package inference

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ─── Model ID parsing ─────────────────────────────────────────────────────────

func TestParseModelID(t *testing.T) {
	tests := []struct {
		id           string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{"anthropic:claude-sonnet-4-6", "anthropic", "claude-sonnet-4-6", false},
		{"openai:gpt-4o", "openai", "gpt-4o", false},
		{"gemini:gemini-2.0-flash", "gemini", "gemini-2.0-flash", false},
		{"local:llama3:8b", "local", "llama3:8b", false},
		{"no-colon", "", "", true},
		{":model", "", "", true},
		{"provider:", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			provider, model, err := ParseModelID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if provider != tt.wantProvider || model != tt.wantModel {
				t.Errorf("got (%q, %q), want (%q, %q)", provider, model, tt.wantProvider, tt.wantModel)
			}
		})
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient("nosuch:model")
	if err == nil || !strings.Contains(err.Error(), "nosuch") {
		t.Fatalf("expected unknown-provider error, got %v", err)
	}
}

func TestNewClient_UsesRegisteredFactory(t *testing.T) {
	var gotModel string
	RegisterProvider("fake-test-provider", func(modelName string) (Client, error) {
		gotModel = modelName
		return nil, errors.New("factory reached")
	})

	_, err := NewClient("fake-test-provider:some-model")
	if err == nil || err.Error() != "factory reached" {
		t.Fatalf("factory should be invoked, got %v", err)
	}
	if gotModel != "some-model" {
		t.Errorf("model name = %q, want some-model", gotModel)
	}
}

// ─── Error classification and retry ───────────────────────────────────────────

func TestRetryable(t *testing.T) {
	rl := &RateLimitError{ProviderError{Code: 429, Message: "slow down"}}
	se := &ServerError{ProviderError{Code: 503, Message: "overloaded"}}
	ae := &AuthError{ProviderError{Code: 401, Message: "bad key"}}

	if !Retryable(rl) || !Retryable(se) {
		t.Error("rate limit and server errors are transient")
	}
	if Retryable(ae) || Retryable(errors.New("plain")) {
		t.Error("auth and unclassified errors are not transient")
	}
	// Classification survives wrapping.
	if !Retryable(errors.Join(errors.New("ctx"), rl)) {
		t.Error("wrapped transient error should stay retryable")
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("tcp reset")
	err := &ServerError{ProviderError{Code: 502, Message: "bad gateway", Cause: cause}}
	if !errors.Is(err, cause) {
		t.Error("cause should unwrap")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "tcp reset") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestWithRetry_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 4, func() error {
		calls++
		if calls < 3 {
			return &ServerError{ProviderError{Code: 500, Message: "flaky"}}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	auth := &AuthError{ProviderError{Code: 401, Message: "bad key"}}
	err := WithRetry(context.Background(), 4, func() error {
		calls++
		return auth
	})
	if !errors.Is(err, auth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_Exhaustion(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 2, func() error {
		calls++
		return &RateLimitError{ProviderError{Code: 429, Message: "slow down"}}
	})
	if err == nil || !strings.Contains(err.Error(), "max retries") {
		t.Fatalf("expected exhaustion error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Error("last error should be wrapped in the exhaustion error")
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, 3, func() error {
		return &ServerError{ProviderError{Code: 500, Message: "flaky"}}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
