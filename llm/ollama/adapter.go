package ollama

import (
	"strings"

	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/ollama/ollama/api"
	"github.com/samber/lo"
)

// ToOllamaMessages converts llm.Messages to Ollama chat messages, with the
// system prompt (if any) as the leading system message.
func ToOllamaMessages(system string, msgs []llm.Message) []api.Message {
	result := make([]api.Message, 0, len(msgs)+1)
	if system != "" {
		result = append(result, api.Message{Role: "system", Content: system})
	}
	return append(result, lo.Map(msgs, func(msg llm.Message, _ int) api.Message {
		return ToOllamaMessage(msg)
	})...)
}

// ToOllamaMessage converts a single llm.Message, joining its text blocks.
func ToOllamaMessage(msg llm.Message) api.Message {
	role := "user"
	switch msg.Role {
	case llm.RoleAssistant:
		role = "assistant"
	case llm.RoleSystem:
		role = "system"
	}

	texts := lo.FilterMap(msg.Content, func(block llm.ContentBlock, _ int) (string, bool) {
		return block.Text, block.Type == llm.ContentBlockTypeText
	})
	return api.Message{Role: role, Content: strings.Join(texts, "\n")}
}

// FromChatResponse converts a final Ollama chat response to an llm.Response.
func FromChatResponse(resp api.ChatResponse) *llm.Response {
	var content []llm.ContentBlock
	if resp.Message.Content != "" {
		content = append(content, llm.ContentBlock{
			Type: llm.ContentBlockTypeText,
			Text: resp.Message.Content,
		})
	}

	stopReason := llm.StopReasonStop
	if resp.DoneReason == "length" {
		stopReason = llm.StopReasonMaxTokens
	}

	return &llm.Response{
		Content: content,
		Usage: &llm.Usage{
			InputTokens:  int64(resp.PromptEvalCount),
			OutputTokens: int64(resp.EvalCount),
		},
		StopReason: stopReason,
	}
}
