package llm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	err := NewRateLimitError("rate limit exceeded", nil, nil)
	if !IsRateLimitError(err) {
		t.Error("Expected IsRateLimitError to return true for rate limit error")
	}

	regularErr := NewProviderError("some error", nil)
	if IsRateLimitError(regularErr) {
		t.Error("Expected IsRateLimitError to return false for non-rate-limit error")
	}
}

func TestIsRequestTooLargeError(t *testing.T) {
	err := NewRequestTooLargeError("request too large", nil)
	if !IsRequestTooLargeError(err) {
		t.Error("Expected IsRequestTooLargeError to return true for request too large error")
	}

	regularErr := NewProviderError("some error", nil)
	if IsRequestTooLargeError(regularErr) {
		t.Error("Expected IsRequestTooLargeError to return false for non-request-too-large error")
	}
}

func TestIsRetryableError(t *testing.T) {
	retryableErr := NewRateLimitError("rate limit", nil, nil)
	if !IsRetryableError(retryableErr) {
		t.Error("Expected IsRetryableError to return true for retryable error")
	}

	nonRetryableErr := NewProviderError("some error", nil)
	if IsRetryableError(nonRetryableErr) {
		t.Error("Expected IsRetryableError to return false for non-retryable error")
	}
}

func TestExtractRetryAfter(t *testing.T) {
	retryAfter := 5 * time.Minute
	err := NewRateLimitError("rate limit", &retryAfter, nil)
	extracted := ExtractRetryAfter(err)
	if extracted == nil {
		t.Fatal("Expected non-nil retry after")
	}
	if *extracted != retryAfter {
		t.Errorf("Expected retry after %v, got %v", retryAfter, *extracted)
	}

	regularErr := NewProviderError("some error", nil)
	if ExtractRetryAfter(regularErr) != nil {
		t.Error("Expected nil retry after for non-rate-limit error")
	}
}

func TestErrorUnwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := NewProviderError("wrapped", originalErr)
	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Expected error to unwrap to original error")
	}
}

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{name: "auth", err: NewAuthError("bad key", 401, nil), is: IsAuthError},
		{name: "blocked", err: NewBlockedError("blocked", nil), is: IsBlockedError},
		{name: "stopped", err: NewStoppedError("stopped", nil), is: IsStoppedError},
		{name: "rate limit", err: NewRateLimitError("slow down", nil, nil), is: IsRateLimitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("convert: %w", tt.err)
			if !tt.is(wrapped) {
				t.Errorf("predicate did not match wrapped %s error", tt.name)
			}
		})
	}
}

func TestErrorTypeOfPlainError(t *testing.T) {
	if got := ErrorTypeOf(errors.New("boom")); got != ErrorTypeUnknown {
		t.Errorf("Expected %q for a plain error, got %q", ErrorTypeUnknown, got)
	}
	if IsBlockedError(nil) {
		t.Error("Expected nil error not to be blocked")
	}
}

func TestClassifyErrorText(t *testing.T) {
	tests := []struct {
		text string
		want ErrorType
	}{
		{text: "400 API_KEY_INVALID: API key not valid", want: ErrorTypeAuth},
		{text: "status PERMISSION_DENIED", want: ErrorTypeAuth},
		{text: "RATE_LIMIT_EXCEEDED for project", want: ErrorTypeRateLimit},
		{text: "429 RESOURCE_EXHAUSTED", want: ErrorTypeRateLimit},
		{text: "connection refused", want: ErrorTypeUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyErrorText(tt.text); got != tt.want {
			t.Errorf("ClassifyErrorText(%q) = %q; want %q", tt.text, got, tt.want)
		}
	}
}
