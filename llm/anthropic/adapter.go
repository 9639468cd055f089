package anthropic

import (
	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/samber/lo"
)

// ToMessageParam converts an llm.Message to an Anthropic MessageParam.
// Only text blocks are forwarded.
func ToMessageParam(msg llm.Message) anthropic.MessageParam {
	texts := lo.Filter(msg.Content, func(block llm.ContentBlock, _ int) bool {
		return block.Type == llm.ContentBlockTypeText
	})
	blocks := lo.Map(texts, func(block llm.ContentBlock, _ int) anthropic.ContentBlockParamUnion {
		return anthropic.NewTextBlock(block.Text)
	})

	if msg.Role == llm.RoleAssistant {
		return anthropic.NewAssistantMessage(blocks...)
	}
	return anthropic.NewUserMessage(blocks...)
}

// ToMessageParams converts a slice of llm.Messages to Anthropic MessageParams.
// System messages are skipped; Anthropic takes the system prompt separately.
func ToMessageParams(msgs []llm.Message) []anthropic.MessageParam {
	conversational := lo.Reject(msgs, func(msg llm.Message, _ int) bool {
		return msg.Role == llm.RoleSystem
	})
	return lo.Map(conversational, func(msg llm.Message, _ int) anthropic.MessageParam {
		return ToMessageParam(msg)
	})
}

// FromMessage converts an Anthropic response message to an llm.Response.
func FromMessage(message *anthropic.Message) *llm.Response {
	content := make([]llm.ContentBlock, 0, len(message.Content))
	for _, blockUnion := range message.Content {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			content = append(content, llm.ContentBlock{
				Type: llm.ContentBlockTypeText,
				Text: block.Text,
			})
		}
	}

	return &llm.Response{
		Content: content,
		Usage: &llm.Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
		StopReason: fromStopReason(string(message.StopReason)),
	}
}

func fromStopReason(reason string) string {
	switch reason {
	case "max_tokens":
		return llm.StopReasonMaxTokens
	case "refusal":
		return llm.StopReasonBlocked
	default:
		return llm.StopReasonStop
	}
}
