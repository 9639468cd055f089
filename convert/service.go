// Package convert calls the configured LLM for each editor conversion and
// normalizes the reply.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/aschepis/backscratcher/editord/normalize"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	DefaultTemperature    = 0.1
	DefaultLatexMaxTokens = 200
	DefaultBlockMaxTokens = 800
	DefaultTableMaxTokens = 4000
)

var (
	// ErrEmptyInput is returned when the text to convert is empty or whitespace.
	ErrEmptyInput = errors.New("input cannot be empty")
	// ErrNotConfigured is the fallback reason when no LLM client is available.
	ErrNotConfigured = errors.New("no LLM provider configured")
)

// Config holds conversion settings. Zero values take the defaults above.
type Config struct {
	Model          string   // empty uses the client's default model
	Temperature    *float64 // nil uses DefaultTemperature
	LatexMaxTokens int64
	BlockMaxTokens int64
	TableMaxTokens int64
	Logger         zerolog.Logger
}

// Service performs conversions. A Service without a client still answers
// every call with the fallback result.
type Service struct {
	client llm.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates a Service. client may be nil.
func New(cfg Config, client llm.Client) *Service {
	cfg.LatexMaxTokens = lo.CoalesceOrEmpty(cfg.LatexMaxTokens, DefaultLatexMaxTokens)
	cfg.BlockMaxTokens = lo.CoalesceOrEmpty(cfg.BlockMaxTokens, DefaultBlockMaxTokens)
	cfg.TableMaxTokens = lo.CoalesceOrEmpty(cfg.TableMaxTokens, DefaultTableMaxTokens)
	if cfg.Temperature == nil {
		cfg.Temperature = llm.Float(DefaultTemperature)
	}

	return &Service{
		client: client,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "convert").Logger(),
	}
}

// Configured reports whether the service has an LLM client.
func (s *Service) Configured() bool {
	return s.client != nil
}

// Latex converts a natural-language expression to inline LaTeX.
func (s *Service) Latex(ctx context.Context, text string) (normalize.LatexOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return normalize.LatexOutcome{}, fmt.Errorf("text: %w", ErrEmptyInput)
	}

	raw, err := s.generate(ctx, "latex", s.request(latexSystemPrompt, text, s.cfg.LatexMaxTokens))
	if err != nil {
		if isHardError(err) {
			return normalize.LatexOutcome{}, fmt.Errorf("converting latex: %w", err)
		}
		return s.logOutcome("latex", normalize.LatexFallback(text, err)), nil
	}
	return s.logOutcome("latex", normalize.Latex(raw, text)), nil
}

// LatexBlock converts multi-line English to a LaTeX block. Annotations
// written as "expression - note" are not sent to the model.
func (s *Service) LatexBlock(ctx context.Context, englishText string) (normalize.LatexOutcome, error) {
	if strings.TrimSpace(englishText) == "" {
		return normalize.LatexOutcome{}, fmt.Errorf("englishText: %w", ErrEmptyInput)
	}

	mathText := lo.CoalesceOrEmpty(StripAnnotations(englishText), strings.TrimSpace(englishText))
	raw, err := s.generate(ctx, "latex-block", s.request(latexBlockSystemPrompt, mathText, s.cfg.BlockMaxTokens))
	if err != nil {
		if isHardError(err) {
			return normalize.LatexOutcome{}, fmt.Errorf("converting latex block: %w", err)
		}
		return s.logOutcome("latex-block", normalize.LatexBlockFallback(englishText, err)), nil
	}
	return s.logOutcome("latex-block", normalize.LatexBlock(raw, englishText)), nil
}

// Table converts a table description to rows of cells.
func (s *Service) Table(ctx context.Context, prompt string) (normalize.TableOutcome, error) {
	if strings.TrimSpace(prompt) == "" {
		return normalize.TableOutcome{}, fmt.Errorf("prompt: %w", ErrEmptyInput)
	}

	req := s.request(tableSystemPrompt, fmt.Sprintf(tableUserTemplate, prompt), s.cfg.TableMaxTokens)
	req.ResponseFormat = llm.ResponseFormatJSON

	raw, err := s.generate(ctx, "table", req)
	if err != nil {
		if isHardError(err) {
			return normalize.TableOutcome{}, fmt.Errorf("converting table: %w", err)
		}
		out := normalize.TableFallback(err)
		s.logTable(out)
		return out, nil
	}

	out := normalize.TableJSON(raw, prompt)
	s.logTable(out)
	return out, nil
}

// StripAnnotations drops the " - annotation" suffix from each line and
// removes blank lines.
func StripAnnotations(text string) string {
	lines := lo.FilterMap(strings.Split(strings.TrimSpace(text), "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		if math, _, found := strings.Cut(line, " - "); found {
			line = strings.TrimSpace(math)
		}
		return line, line != ""
	})
	return strings.Join(lines, "\n")
}

func (s *Service) request(system, text string, maxTokens int64) *llm.Request {
	req := llm.NewTextRequest(system, text)
	req.Model = s.cfg.Model
	req.MaxTokens = maxTokens
	req.Temperature = s.cfg.Temperature
	return req
}

func (s *Service) generate(ctx context.Context, op string, req *llm.Request) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := s.client.Synchronous(ctx, req)
	if err != nil {
		err = classify(err)
		s.logger.Error().Err(err).Str("op", op).Str("error_type", string(llm.ErrorTypeOf(err))).Msg("LLM call failed")
		return "", err
	}
	return resp.Text(), nil
}

// classify gives untyped errors a type when their text carries a known
// provider error code.
func classify(err error) error {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return err
	}
	switch t := llm.ClassifyErrorText(err.Error()); t {
	case llm.ErrorTypeAuth:
		return llm.NewAuthError("LLM authentication failed", 0, err)
	case llm.ErrorTypeRateLimit:
		return llm.NewRateLimitError("LLM rate limit exceeded", nil, err)
	}
	return err
}

// isHardError reports whether err must reach the caller instead of
// degrading to a fallback result.
func isHardError(err error) bool {
	return llm.IsBlockedError(err) ||
		llm.IsStoppedError(err) ||
		llm.IsAuthError(err) ||
		llm.IsRateLimitError(err)
}

func (s *Service) logOutcome(op string, out normalize.LatexOutcome) normalize.LatexOutcome {
	event := s.logger.Debug()
	if out.Source.IsFallback() {
		event = s.logger.Warn().AnErr("reason", out.Reason)
	}
	event.Str("op", op).Str("source", string(out.Source)).Int("latex_chars", len(out.Latex)).Msg("Conversion finished")
	return out
}

func (s *Service) logTable(out normalize.TableOutcome) {
	event := s.logger.Debug()
	if out.Source.IsFallback() {
		event = s.logger.Warn().AnErr("reason", out.Reason)
	}
	cols := 0
	if len(out.Rows) > 0 {
		cols = len(out.Rows[0].Cells)
	}
	event.Str("op", "table").Str("source", string(out.Source)).Int("rows", len(out.Rows)).Int("cols", cols).Msg("Conversion finished")
}
