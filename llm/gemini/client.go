// Package gemini implements llm.Client on the Google Gen AI SDK
// (Gemini Developer API backend).
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/aschepis/backscratcher/editord/llm"
)

const defaultTimeout = 60 * time.Second

// GeminiClient implements the llm.Client interface for Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string // Default model to use if not specified in request
}

// NewGeminiClient creates a new GeminiClient.
// If baseURL is empty the SDK's public endpoint is used; if model is empty
// llm.DefaultGeminiModel is used.
func NewGeminiClient(apiKey, baseURL, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		model = llm.DefaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: defaultTimeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Synchronous implements llm.Client.Synchronous.
func (c *GeminiClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, toContents(req.Messages), toGenerateContentConfig(req))
	if err != nil {
		return nil, convertGeminiError(err)
	}
	return fromGenerateContentResponse(resp)
}

func toContents(messages []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.RoleUser
		if msg.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		var text strings.Builder
		for _, block := range msg.Content {
			if block.Type == llm.ContentBlockTypeText {
				text.WriteString(block.Text)
			}
		}
		contents = append(contents, genai.NewContentFromText(text.String(), genai.Role(role)))
	}
	return contents
}

func toGenerateContentConfig(req *llm.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens) //nolint:gosec // budgets are small constants
	}
	if req.ResponseFormat == llm.ResponseFormatJSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func fromGenerateContentResponse(resp *genai.GenerateContentResponse) (*llm.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, llm.NewBlockedError("Gemini blocked the prompt: "+string(resp.PromptFeedback.BlockReason), nil)
		}
		return nil, llm.NewStoppedError("Gemini returned no candidates", nil)
	}

	cand := resp.Candidates[0]
	stopReason, err := mapFinishReason(string(cand.FinishReason))
	if err != nil {
		return nil, err
	}

	var blocks []llm.ContentBlock
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Text == "" || p.Thought {
				continue
			}
			blocks = append(blocks, llm.ContentBlock{Type: llm.ContentBlockTypeText, Text: p.Text})
		}
	}

	out := &llm.Response{
		Content:    blocks,
		StopReason: stopReason,
	}
	if resp.UsageMetadata != nil {
		out.Usage = &llm.Usage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// mapFinishReason maps a candidate finish reason to an llm stop reason.
// Candidates halted by the safety or recitation checks carry no usable text,
// so they surface as stopped-generation errors.
func mapFinishReason(reason string) (string, error) {
	switch reason {
	case "", "STOP", "FINISH_REASON_UNSPECIFIED":
		return llm.StopReasonStop, nil
	case "MAX_TOKENS":
		return llm.StopReasonMaxTokens, nil
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII", "OTHER":
		return "", llm.NewStoppedError("Gemini stopped generation: "+reason, nil)
	default:
		return llm.StopReasonStop, nil
	}
}

// asAPIError extracts the SDK's APIError, which may be wrapped by value or pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// convertGeminiError converts SDK errors to llm.Error types.
func convertGeminiError(err error) error {
	apiErr, ok := asAPIError(err)
	if !ok {
		var urlErr *url.Error
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return &llm.Error{Type: llm.ErrorTypeTimeout, Message: "Gemini request timed out", Retryable: true, ProviderErr: err}
		case errors.As(err, &urlErr):
			return &llm.Error{Type: llm.ErrorTypeNetwork, Message: "Gemini request failed", Retryable: true, ProviderErr: err}
		default:
			return llm.NewProviderError("Gemini API error", err)
		}
	}

	status := apiErr.Code
	codes := []string{apiErr.Status}
	for _, d := range apiErr.Details {
		if reason, ok := d["reason"].(string); ok {
			codes = append(codes, reason)
		}
	}
	providerErr := fmt.Errorf("status %d %s: %s: %w", status, strings.Join(codes, " "), apiErr.Message, err)

	// Gemini reports an invalid key as 400 API_KEY_INVALID, so the text check comes first.
	switch textType := llm.ClassifyErrorText(providerErr.Error()); {
	case textType == llm.ErrorTypeAuth || status == http.StatusUnauthorized || status == http.StatusForbidden:
		return llm.NewAuthError("Gemini API authentication failed", status, providerErr)
	case textType == llm.ErrorTypeRateLimit || status == http.StatusTooManyRequests:
		return llm.NewRateLimitError("Gemini rate limit exceeded", retryDelay(apiErr.Details), providerErr)
	case status == http.StatusBadRequest:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     "Gemini invalid request",
			StatusCode:  status,
			ProviderErr: providerErr,
		}
	case status >= 500:
		return &llm.Error{
			Type:        llm.ErrorTypeProvider,
			Message:     "Gemini server error",
			Retryable:   true,
			StatusCode:  status,
			ProviderErr: providerErr,
		}
	default:
		return &llm.Error{
			Type:        llm.ErrorTypeProvider,
			Message:     "Gemini API error",
			StatusCode:  status,
			ProviderErr: providerErr,
		}
	}
}

// retryDelay reads google.rpc.RetryInfo.retryDelay (e.g. "19s") from error details.
func retryDelay(details []map[string]any) *time.Duration {
	for _, d := range details {
		typ, _ := d["@type"].(string)
		if !strings.HasSuffix(typ, "google.rpc.RetryInfo") {
			continue
		}
		raw, _ := d["retryDelay"].(string)
		delay, err := time.ParseDuration(raw)
		if err != nil || delay <= 0 {
			return nil
		}
		return &delay
	}
	return nil
}
