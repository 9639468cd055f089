package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LoggingMiddleware logs every request, its latency, and the provider outcome.
type LoggingMiddleware struct {
	logger   zerolog.Logger
	provider string
}

// NewLoggingMiddleware creates a LoggingMiddleware tagged with the provider name.
func NewLoggingMiddleware(logger zerolog.Logger, provider string) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:   logger.With().Str("component", "llm").Str("provider", provider).Logger(),
		provider: provider,
	}
}

// BeforeRequest implements Middleware.BeforeRequest.
func (m *LoggingMiddleware) BeforeRequest(ctx context.Context, req *Request) (*Request, error) {
	m.logger.Debug().
		Str("model", req.Model).
		Int64("max_tokens", req.MaxTokens).
		Int("messages", len(req.Messages)).
		Msg("Sending LLM request")
	return req.withStart(time.Now()), nil
}

// AfterResponse implements Middleware.AfterResponse.
func (m *LoggingMiddleware) AfterResponse(ctx context.Context, req *Request, resp *Response) (*Response, error) {
	event := m.logger.Info().
		Str("model", req.Model).
		Str("stop_reason", resp.StopReason).
		Int("response_chars", len(resp.Text()))
	if resp.Usage != nil {
		event = event.Int64("input_tokens", resp.Usage.InputTokens).Int64("output_tokens", resp.Usage.OutputTokens)
	}
	if !req.startedAt.IsZero() {
		event = event.Dur("latency", time.Since(req.startedAt))
	}
	event.Msg("LLM response received")
	return resp, nil
}

// OnError implements Middleware.OnError.
func (m *LoggingMiddleware) OnError(ctx context.Context, req *Request, err error) error {
	m.logger.Error().
		Err(err).
		Str("model", req.Model).
		Str("error_type", string(ErrorTypeOf(err))).
		Msg("LLM request failed")
	return err
}

// withStart returns a shallow copy of the request stamped with the send time.
func (r *Request) withStart(t time.Time) *Request {
	cp := *r
	cp.startedAt = t
	return &cp
}
