package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aschepis/backscratcher/editord/llm"
	openai "github.com/sashabaranov/go-openai"
)

func newTestClient(t *testing.T, status int, body string, seen *openai.ChatCompletionRequest) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient("test-key", server.URL+"/v1", "gpt-test", "")
	if err != nil {
		t.Fatalf("NewOpenAIClient failed: %v", err)
	}
	return client
}

func TestSynchronous_ReturnsText(t *testing.T) {
	var seen openai.ChatCompletionRequest
	client := newTestClient(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"tableData\": []}"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
	}`, &seen)

	req := llm.NewTextRequest("system", "a table")
	req.ResponseFormat = llm.ResponseFormatJSON
	req.MaxTokens = 4000
	resp, err := client.Synchronous(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Text() != `{"tableData": []}` {
		t.Errorf("Expected response text, got %q", resp.Text())
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 4 {
		t.Errorf("Expected usage 10/4, got %+v", resp.Usage)
	}
	if seen.Model != "gpt-test" {
		t.Errorf("Expected default model, got %q", seen.Model)
	}
	if seen.ResponseFormat == nil || seen.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("Expected json_object response format, got %+v", seen.ResponseFormat)
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("Expected system + user messages, got %+v", seen.Messages)
	}
}

func TestSynchronous_ContentFilterIsBlocked(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{
		"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}, "finish_reason": "content_filter"}]
	}`, nil)

	_, err := client.Synchronous(context.Background(), llm.NewTextRequest("", "x"))
	if !llm.IsBlockedError(err) {
		t.Errorf("Expected blocked error, got %v", err)
	}
}

func TestSynchronous_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, check: llm.IsAuthError},
		{name: "rate limited", status: http.StatusTooManyRequests, check: llm.IsRateLimitError},
		{name: "too large", status: http.StatusRequestEntityTooLarge, check: llm.IsRequestTooLargeError},
		{name: "server error", status: http.StatusServiceUnavailable, check: llm.IsRetryableError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.status, `{"error": {"message": "nope", "type": "error"}}`, nil)
			_, err := client.Synchronous(context.Background(), llm.NewTextRequest("", "x"))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected classification %q for %v", llm.ErrorTypeOf(err), err)
			}
		})
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient("", "", "", ""); err == nil {
		t.Error("Expected error for missing api key")
	}
}

func TestRateLimitHasNoInventedDelay(t *testing.T) {
	client := newTestClient(t, http.StatusTooManyRequests, `{"error": {"message": "slow down", "type": "requests"}}`, nil)
	_, err := client.Synchronous(context.Background(), llm.NewTextRequest("", "x"))
	if !llm.IsRateLimitError(err) {
		t.Fatalf("Expected rate limit error, got %v", err)
	}
	if d := llm.ExtractRetryAfter(err); d != nil {
		t.Errorf("Expected no retry-after, got %v", *d)
	}
}
