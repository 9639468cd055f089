package llm

import (
	"errors"
	"strings"
	"time"
)

// Error represents a provider-neutral LLM error.
type Error struct {
	Type        ErrorType
	Message     string
	Retryable   bool
	RetryAfter  *time.Duration
	StatusCode  int
	ProviderErr error // Original provider-specific error
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeRequestTooLarge ErrorType = "request_too_large"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeAuth            ErrorType = "auth"
	ErrorTypeBlocked         ErrorType = "blocked"
	ErrorTypeStopped         ErrorType = "stopped"
	ErrorTypeProvider        ErrorType = "provider"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ProviderErr != nil {
		return e.Message + ": " + e.ProviderErr.Error()
	}
	return e.Message
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.ProviderErr
}

// ErrorTypeOf returns the category of err, or ErrorTypeUnknown when err is not an *Error.
func ErrorTypeOf(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeRateLimit
}

// IsRequestTooLargeError checks if an error is a request too large error.
func IsRequestTooLargeError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeRequestTooLarge
}

// IsAuthError checks if the provider rejected the credentials.
func IsAuthError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeAuth
}

// IsBlockedError checks if the provider's safety filters blocked the prompt or the output.
func IsBlockedError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeBlocked
}

// IsStoppedError checks if the provider stopped generation before producing a usable candidate.
func IsStoppedError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeStopped
}

// IsRetryableError checks if an error is retryable.
func IsRetryableError(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// ExtractRetryAfter extracts the retry-after duration from an error.
func ExtractRetryAfter(err error) *time.Duration {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.RetryAfter
	}
	return nil
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(message string, retryAfter *time.Duration, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeRateLimit,
		Message:     message,
		Retryable:   true,
		RetryAfter:  retryAfter,
		StatusCode:  429,
		ProviderErr: providerErr,
	}
}

// NewRequestTooLargeError creates a new request too large error.
func NewRequestTooLargeError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeRequestTooLarge,
		Message:     message,
		Retryable:   true,
		ProviderErr: providerErr,
	}
}

// NewAuthError creates a new authentication error.
func NewAuthError(message string, statusCode int, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeAuth,
		Message:     message,
		StatusCode:  statusCode,
		ProviderErr: providerErr,
	}
}

// NewBlockedError creates a new safety-filter error.
func NewBlockedError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeBlocked,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// NewStoppedError creates a new stopped-generation error.
func NewStoppedError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeStopped,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// NewProviderError creates a new provider error.
func NewProviderError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeProvider,
		Message:     message,
		Retryable:   false,
		ProviderErr: providerErr,
	}
}

// ClassifyErrorText recognises provider error codes embedded in error messages
// (e.g. "API_KEY_INVALID", "RATE_LIMIT_EXCEEDED"). It returns ErrorTypeUnknown
// when nothing matches.
func ClassifyErrorText(text string) ErrorType {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "API_KEY_INVALID"),
		strings.Contains(upper, "PERMISSION_DENIED"),
		strings.Contains(upper, "UNAUTHENTICATED"):
		return ErrorTypeAuth
	case strings.Contains(upper, "RATE_LIMIT_EXCEEDED"),
		strings.Contains(upper, "RESOURCE_EXHAUSTED"):
		return ErrorTypeRateLimit
	default:
		return ErrorTypeUnknown
	}
}
