package generation

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
)

// assistantSystemPrompt is the fixed instruction appended to every request.
const assistantSystemPrompt = "You are a helpful AI assistant. Provide clear, accurate, and helpful responses. If the user shares an image, analyze it and respond appropriately."

// FormatMessages renders an assembled context into chat-completion wire
// messages: [optional summary system message, fixed system message, turns in
// chronological order]. Pure function, no I/O.
func FormatMessages(cc *ConversationContext) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(cc.Messages)+2)

	if cc.HasSummary && cc.Summary != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: cc.Summary,
		})
	}

	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: assistantSystemPrompt,
	})

	for _, message := range cc.Messages {
		out = append(out, formatTurn(message))
	}

	return out
}

// formatTurn resolves one turn into its wire shape. The text-vs-multimodal
// decision is made exactly once here: only user turns with an attached image
// become a multi-part payload.
func formatTurn(m *chat.Message) openai.ChatCompletionMessage {
	role := openai.ChatMessageRoleAssistant
	if m.Role == chat.MessageRoleUser {
		role = openai.ChatMessageRoleUser
	}

	if role == openai.ChatMessageRoleUser && m.Image != nil && m.Image.URL != "" {
		return openai.ChatCompletionMessage{
			Role: role,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: m.Content,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    m.Image.URL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		}
	}

	return openai.ChatCompletionMessage{
		Role:    role,
		Content: m.Content,
	}
}
