package llm

import (
	"strings"
	"time"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole
	Content []ContentBlock
}

// ContentBlock represents a single content block within a message.
type ContentBlock struct {
	Type ContentBlockType
	Text string
}

// ContentBlockType represents the type of content block.
type ContentBlockType string

const (
	ContentBlockTypeText ContentBlockType = "text"
)

// ResponseFormat asks the provider for a particular output encoding.
// Providers that cannot enforce a format ignore it.
type ResponseFormat string

const (
	ResponseFormatText ResponseFormat = ""
	ResponseFormatJSON ResponseFormat = "json"
)

// Request represents a complete LLM API request.
type Request struct {
	Model          string
	Messages       []Message
	System         string
	MaxTokens      int64
	Temperature    *float64 // Optional temperature override
	ResponseFormat ResponseFormat

	startedAt time.Time // set by LoggingMiddleware
}

// Response represents a complete LLM API response.
type Response struct {
	Content    []ContentBlock
	Usage      *Usage
	StopReason string
}

// Usage represents token usage information from an LLM response.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Stop reasons shared by all providers.
const (
	StopReasonStop      = "stop"
	StopReasonMaxTokens = "max_tokens"
	StopReasonBlocked   = "content_filter"
)

// NewTextMessage creates a new message with a single text block.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role: role,
		Content: []ContentBlock{
			{
				Type: ContentBlockTypeText,
				Text: text,
			},
		},
	}
}

// NewTextRequest builds a single-turn request: one system prompt, one user message.
func NewTextRequest(system, user string) *Request {
	return &Request{
		System:   system,
		Messages: []Message{NewTextMessage(RoleUser, user)},
	}
}

// Text concatenates all text blocks of the response.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == ContentBlockTypeText {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 {
	return &v
}
