package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
)

func seedHistory(repo *stubMessageRepo, chatID uint, contents ...string) {
	base := time.Now().Add(-time.Duration(len(contents)) * time.Minute)
	for i, content := range contents {
		role := chat.MessageRoleUser
		if i%2 == 1 {
			role = chat.MessageRoleAssistant
		}
		repo.messages = append(repo.messages, seedMessage(chatID, fmt.Sprintf("msg_%d", i+1), role, content, base.Add(time.Duration(i)*time.Minute)))
	}
}

func contextService(messages *stubMessageRepo) *Service {
	return NewService(newStubChatRepo(), messages, &stubClient{configured: true}, testConfig())
}

func TestEstimateMessageTokens(t *testing.T) {
	assert.Equal(t, 0, estimateMessageTokens(""))
	assert.Equal(t, 1, estimateMessageTokens("a"))
	assert.Equal(t, 1, estimateMessageTokens("abcd"))
	assert.Equal(t, 2, estimateMessageTokens("abcde"))
	assert.Equal(t, 25, estimateMessageTokens(strings.Repeat("x", 100)))
}

func TestWindowContextChronologicalOrder(t *testing.T) {
	messages := &stubMessageRepo{}
	seedHistory(messages, 1, "one", "two", "three", "four", "five")
	svc := contextService(messages)

	cc := svc.windowContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 3000})

	require.Len(t, cc.Messages, 5)
	for i, want := range []string{"one", "two", "three", "four", "five"} {
		assert.Equal(t, want, cc.Messages[i].Content)
	}
	assert.False(t, cc.Truncated)
	assert.False(t, cc.HasSummary)
}

func TestWindowContextStopsBeforeBlowingBudget(t *testing.T) {
	messages := &stubMessageRepo{}
	// 100 chars each, 25 estimated tokens per turn
	seedHistory(messages, 1,
		strings.Repeat("a", 100),
		strings.Repeat("b", 100),
		strings.Repeat("c", 100),
		strings.Repeat("d", 100),
	)
	svc := contextService(messages)

	cc := svc.windowContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 60})

	// two turns fit (50 tokens), the third would exceed 60
	require.Len(t, cc.Messages, 2)
	assert.Equal(t, strings.Repeat("a", 100), cc.Messages[0].Content)
	assert.Equal(t, 50, cc.EstimatedTokens)
	assert.True(t, cc.Truncated)
}

func TestWindowContextAlwaysKeepsAtLeastOneTurn(t *testing.T) {
	messages := &stubMessageRepo{}
	seedHistory(messages, 1, strings.Repeat("x", 10000))
	svc := contextService(messages)

	cc := svc.windowContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 100})

	require.Len(t, cc.Messages, 1)
	assert.Equal(t, 2500, cc.EstimatedTokens)
	assert.False(t, cc.Truncated)
}

func TestWindowContextRespectsMaxMessages(t *testing.T) {
	messages := &stubMessageRepo{}
	contents := make([]string, 30)
	for i := range contents {
		contents[i] = fmt.Sprintf("turn %d", i+1)
	}
	seedHistory(messages, 1, contents...)
	svc := contextService(messages)

	cc := svc.windowContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 3000})

	require.Len(t, cc.Messages, 25)
	// the most recent 25 turns in chronological order
	assert.Equal(t, "turn 6", cc.Messages[0].Content)
	assert.Equal(t, "turn 30", cc.Messages[24].Content)
}

func TestWindowContextPersistenceErrorYieldsEmptyContext(t *testing.T) {
	messages := &stubMessageRepo{listErr: errors.New("connection refused")}
	svc := contextService(messages)

	cc := svc.windowContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 3000})

	assert.Empty(t, cc.Messages)
	assert.False(t, cc.Truncated)
	assert.Zero(t, cc.EstimatedTokens)
}

func TestSmartContextAttachesSummaryOnTruncatedLongConversation(t *testing.T) {
	messages := &stubMessageRepo{}
	// 14 turns of 100 chars each; budget admits 11 (275 of 300 tokens)
	contents := make([]string, 14)
	for i := range contents {
		contents[i] = strings.Repeat(string(rune('a'+i)), 100)
	}
	seedHistory(messages, 1, contents...)
	svc := contextService(messages)

	cc := svc.smartContext(context.Background(), 1, ContextConfig{MaxMessages: 14, MaxTokens: 280})

	require.Len(t, cc.Messages, 11)
	assert.True(t, cc.Truncated)
	assert.True(t, cc.HasSummary)
	assert.True(t, strings.HasPrefix(cc.Summary, summaryPreamble))
	assert.True(t, strings.HasSuffix(cc.Summary, summaryPostamble))
	// the summary covers the first half of the full 14-turn history
	assert.Contains(t, cc.Summary, strings.Repeat("g", 100))
	assert.NotContains(t, cc.Summary, strings.Repeat("h", 100))
}

func TestSmartContextNoSummaryWhenWindowIsSmall(t *testing.T) {
	messages := &stubMessageRepo{}
	// truncated window but only 2 turns accepted, below the threshold
	seedHistory(messages, 1,
		strings.Repeat("a", 100),
		strings.Repeat("b", 100),
		strings.Repeat("c", 100),
	)
	svc := contextService(messages)

	cc := svc.smartContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 60})

	assert.True(t, cc.Truncated)
	assert.False(t, cc.HasSummary)
	assert.Empty(t, cc.Summary)
}

func TestSmartContextShortConversationNeverSummarized(t *testing.T) {
	messages := &stubMessageRepo{}
	seedHistory(messages, 1, "hello", "hi", "how are you")
	svc := contextService(messages)

	cc := svc.smartContext(context.Background(), 1, ContextConfig{MaxMessages: 25, MaxTokens: 3000})

	assert.False(t, cc.Truncated)
	assert.False(t, cc.HasSummary)
}

func TestSummarizeHistory(t *testing.T) {
	base := time.Now()
	short := []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "one", base),
		seedMessage(1, "msg_2", chat.MessageRoleAssistant, "two", base),
		seedMessage(1, "msg_3", chat.MessageRoleUser, "three", base),
		seedMessage(1, "msg_4", chat.MessageRoleAssistant, "four", base),
		seedMessage(1, "msg_5", chat.MessageRoleUser, "five", base),
	}
	assert.Empty(t, summarizeHistory(short))

	long := append(short, seedMessage(1, "msg_6", chat.MessageRoleAssistant, strings.Repeat("z", 150), base))
	summary := summarizeHistory(long)
	require.NotEmpty(t, summary)
	assert.Contains(t, summary, "user: one")
	assert.Contains(t, summary, "assistant: two")
	assert.Contains(t, summary, "user: three")
	// only the first half is rendered
	assert.NotContains(t, summary, "four")
	assert.NotContains(t, summary, "five")
}

func TestSummarizeHistoryTruncatesSnippets(t *testing.T) {
	base := time.Now()
	content := strings.Repeat("q", 150)
	messages := make([]*chat.Message, 6)
	for i := range messages {
		messages[i] = seedMessage(1, fmt.Sprintf("msg_%d", i+1), chat.MessageRoleUser, content, base)
	}

	summary := summarizeHistory(messages)

	require.NotEmpty(t, summary)
	assert.Contains(t, summary, content[:summarySnippetLength]+"...")
	assert.NotContains(t, summary, content)
}
