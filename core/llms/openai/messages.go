package openai

import (
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/koscakluka/ema-chat/core/llms"
)

func toOpenAIMessages(messages []llms.Message) []goopenai.ChatCompletionMessage {
	openAIMessages := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, message := range messages {
		openAIMessages = append(openAIMessages, goopenai.ChatCompletionMessage{
			Role:    toOpenAIRole(message.Role),
			Content: message.Content,
		})
	}
	return openAIMessages
}

func toOpenAIRole(role llms.MessageRole) string {
	switch role {
	case llms.MessageRoleSystem:
		return goopenai.ChatMessageRoleSystem
	case llms.MessageRoleAssistant:
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}
