package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aschepis/backscratcher/editord/llm"
)

// AnthropicClient implements the llm.Client interface for Anthropic's API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string // Default model to use if not specified in request
}

// NewAnthropicClient creates a new AnthropicClient with the given API key.
// Extra request options (base URL, HTTP client) are passed through to the SDK.
func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		model = llm.DefaultAnthropicModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}, nil
}

// Synchronous implements llm.Client.Synchronous.
func (c *AnthropicClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: req.MaxTokens,
		Messages:  ToMessageParams(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, convertAnthropicError(err)
	}

	resp := FromMessage(message)
	if resp.StopReason == llm.StopReasonBlocked {
		return nil, llm.NewBlockedError("Anthropic refused to answer", nil)
	}
	return resp, nil
}

// convertAnthropicError converts Anthropic SDK errors to llm.Error types.
func convertAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return &llm.Error{Type: llm.ErrorTypeTimeout, Message: "Anthropic request timed out", Retryable: true, ProviderErr: err}
		}
		return &llm.Error{Type: llm.ErrorTypeNetwork, Message: "Anthropic request failed", Retryable: true, ProviderErr: err}
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.NewAuthError("Anthropic API authentication failed", apiErr.StatusCode, err)
	case http.StatusTooManyRequests:
		return llm.NewRateLimitError("Anthropic rate limit exceeded", nil, err)
	case http.StatusRequestEntityTooLarge:
		return llm.NewRequestTooLargeError("Anthropic request too large", err)
	case http.StatusBadRequest:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     "Anthropic invalid request",
			StatusCode:  apiErr.StatusCode,
			ProviderErr: err,
		}
	default:
		return &llm.Error{
			Type:        llm.ErrorTypeProvider,
			Message:     "Anthropic API error",
			Retryable:   apiErr.StatusCode >= 500,
			StatusCode:  apiErr.StatusCode,
			ProviderErr: err,
		}
	}
}
