package openai

import (
	"strings"

	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
)

// ToOpenAIMessages converts llm.Messages to OpenAI chat message format,
// with the system prompt (if any) as the leading system message.
func ToOpenAIMessages(system string, msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	return append(result, lo.Map(msgs, func(msg llm.Message, _ int) openai.ChatCompletionMessage {
		return ToOpenAIMessage(msg)
	})...)
}

// ToOpenAIMessage converts a single llm.Message to OpenAI format.
func ToOpenAIMessage(msg llm.Message) openai.ChatCompletionMessage {
	var role string
	switch msg.Role {
	case llm.RoleAssistant:
		role = openai.ChatMessageRoleAssistant
	case llm.RoleSystem:
		role = openai.ChatMessageRoleSystem
	default:
		role = openai.ChatMessageRoleUser
	}

	texts := lo.FilterMap(msg.Content, func(block llm.ContentBlock, _ int) (string, bool) {
		return block.Text, block.Type == llm.ContentBlockTypeText
	})
	return openai.ChatCompletionMessage{
		Role:    role,
		Content: strings.Join(texts, "\n"),
	}
}

// fromFinishReason maps an OpenAI finish reason to an llm stop reason.
func fromFinishReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonLength:
		return llm.StopReasonMaxTokens
	case openai.FinishReasonContentFilter:
		return llm.StopReasonBlocked
	default:
		return llm.StopReasonStop
	}
}
