package generation

import (
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
)

func TestFormatMessagesOrdering(t *testing.T) {
	base := time.Now()
	cc := &ConversationContext{
		Messages: []*chat.Message{
			seedMessage(1, "msg_1", chat.MessageRoleUser, "question", base),
			seedMessage(1, "msg_2", chat.MessageRoleAssistant, "answer", base.Add(time.Minute)),
			seedMessage(1, "msg_3", chat.MessageRoleUser, "follow-up", base.Add(2*time.Minute)),
		},
		Summary:    "Previous conversation summary:\nuser: question",
		HasSummary: true,
	}

	out := FormatMessages(cc)

	require.Len(t, out, 5)
	assert.Equal(t, openai.ChatMessageRoleSystem, out[0].Role)
	assert.Equal(t, cc.Summary, out[0].Content)
	assert.Equal(t, openai.ChatMessageRoleSystem, out[1].Role)
	assert.Equal(t, assistantSystemPrompt, out[1].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, out[2].Role)
	assert.Equal(t, "question", out[2].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, out[3].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, out[4].Role)
	assert.Equal(t, "follow-up", out[4].Content)
}

func TestFormatMessagesWithoutSummary(t *testing.T) {
	cc := &ConversationContext{
		Messages: []*chat.Message{
			seedMessage(1, "msg_1", chat.MessageRoleUser, "hello", time.Now()),
		},
	}

	out := FormatMessages(cc)

	require.Len(t, out, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, out[0].Role)
	assert.Equal(t, assistantSystemPrompt, out[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, out[1].Role)
}

func TestFormatTurnUserWithImageBecomesMultimodal(t *testing.T) {
	m := seedMessage(1, "msg_1", chat.MessageRoleUser, "what is in this picture?", time.Now())
	m.Image = &chat.Image{PublicID: "img_1", URL: "https://cdn.example.com/img_1.png"}

	out := formatTurn(m)

	assert.Equal(t, openai.ChatMessageRoleUser, out.Role)
	assert.Empty(t, out.Content)
	require.Len(t, out.MultiContent, 2)
	assert.Equal(t, openai.ChatMessagePartTypeText, out.MultiContent[0].Type)
	assert.Equal(t, "what is in this picture?", out.MultiContent[0].Text)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, out.MultiContent[1].Type)
	require.NotNil(t, out.MultiContent[1].ImageURL)
	assert.Equal(t, "https://cdn.example.com/img_1.png", out.MultiContent[1].ImageURL.URL)
	assert.Equal(t, openai.ImageURLDetailAuto, out.MultiContent[1].ImageURL.Detail)
}

func TestFormatTurnAssistantWithImageStaysPlainText(t *testing.T) {
	m := seedMessage(1, "msg_1", chat.MessageRoleAssistant, "here is a description", time.Now())
	m.Image = &chat.Image{PublicID: "img_1", URL: "https://cdn.example.com/img_1.png"}

	out := formatTurn(m)

	assert.Equal(t, openai.ChatMessageRoleAssistant, out.Role)
	assert.Equal(t, "here is a description", out.Content)
	assert.Empty(t, out.MultiContent)
}

func TestFormatTurnUserWithoutImageStaysPlainText(t *testing.T) {
	m := seedMessage(1, "msg_1", chat.MessageRoleUser, "plain question", time.Now())

	out := formatTurn(m)

	assert.Equal(t, openai.ChatMessageRoleUser, out.Role)
	assert.Equal(t, "plain question", out.Content)
	assert.Empty(t, out.MultiContent)
}

func TestFormatMessagesIsDeterministic(t *testing.T) {
	cc := &ConversationContext{
		Messages: []*chat.Message{
			seedMessage(1, "msg_1", chat.MessageRoleUser, "hello", time.Now()),
			seedMessage(1, "msg_2", chat.MessageRoleAssistant, "hi", time.Now()),
		},
	}

	first := FormatMessages(cc)
	second := FormatMessages(cc)

	assert.Equal(t, first, second)
}
