package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/ollama/ollama/api"
)

// OllamaClient implements the llm.Client interface for Ollama's API.
type OllamaClient struct {
	client *api.Client
	model  string // Default model to use if not specified in request
}

// NewOllamaClient creates a new OllamaClient.
// If host is empty, it will use the default from environment (OLLAMA_HOST or http://localhost:11434).
func NewOllamaClient(host, model string) (*OllamaClient, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return &OllamaClient{client: client, model: model}, nil
	}

	baseURL, err := parseHost(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	return &OllamaClient{
		client: api.NewClient(baseURL, &http.Client{}),
		model:  model,
	}, nil
}

// parseHost parses a host string into a URL, defaulting the scheme to http.
func parseHost(host string) (*url.URL, error) {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

// Synchronous implements llm.Client.Synchronous.
func (c *OllamaClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: ToOllamaMessages(req.System, req.Messages),
		Stream:   new(bool), // false for non-streaming
		Options:  make(map[string]any),
	}
	if req.ResponseFormat == llm.ResponseFormatJSON {
		chatReq.Format = json.RawMessage(`"json"`)
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = int(req.MaxTokens)
	}
	if req.Temperature != nil {
		chatReq.Options["temperature"] = *req.Temperature
	}

	var chatResp api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		chatResp = resp
		return nil
	})
	if err != nil {
		return nil, convertOllamaError(err)
	}

	return FromChatResponse(chatResp), nil
}

// convertOllamaError converts Ollama client errors to llm.Error types.
func convertOllamaError(err error) error {
	var statusErr api.StatusError
	if !errors.As(err, &statusErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return &llm.Error{Type: llm.ErrorTypeTimeout, Message: "ollama request timed out", Retryable: true, ProviderErr: err}
		}
		return &llm.Error{Type: llm.ErrorTypeNetwork, Message: "ollama chat request failed", Retryable: true, ProviderErr: err}
	}

	switch statusErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.NewAuthError("ollama authentication failed", statusErr.StatusCode, err)
	case http.StatusTooManyRequests:
		return llm.NewRateLimitError("ollama rate limit exceeded", nil, err)
	case http.StatusBadRequest, http.StatusNotFound:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     "ollama invalid request",
			StatusCode:  statusErr.StatusCode,
			ProviderErr: err,
		}
	default:
		return &llm.Error{
			Type:        llm.ErrorTypeProvider,
			Message:     "ollama API error",
			Retryable:   statusErr.StatusCode >= 500,
			StatusCode:  statusErr.StatusCode,
			ProviderErr: err,
		}
	}
}
