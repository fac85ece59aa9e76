package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
)

const (
	// TokenEstimateRatio approximates tokens as characters divided by four.
	TokenEstimateRatio = 4

	// summaryMinMessages is the minimum total history size before a summary
	// is worth synthesizing.
	summaryMinMessages = 5

	// summaryWindowThreshold is the minimum number of messages that must
	// survive truncation before the assembler bothers fetching the full
	// history for a summary.
	summaryWindowThreshold = 10

	summaryPreamble  = "Previous conversation summary:\n"
	summaryPostamble = "\n\n---\n\nContinuing conversation:"

	// summarySnippetLength caps how much of each message the summary quotes.
	summarySnippetLength = 100
)

// ContextConfig bounds context assembly.
type ContextConfig struct {
	MaxMessages          int
	MaxTokens            int
	IncludeSystemMessage bool
}

// ConversationContext is the assembled, token-bounded window handed to the
// format adapter. Messages are in chronological order.
type ConversationContext struct {
	Messages        []*chat.Message
	Summary         string
	HasSummary      bool
	EstimatedTokens int
	Truncated       bool
}

// estimateMessageTokens approximates the token cost of one message's content.
func estimateMessageTokens(content string) int {
	return (len(content) + TokenEstimateRatio - 1) / TokenEstimateRatio
}

// windowContext fetches the most recent messages of a chat, walks them in
// chronological order and stops before the message that would blow the token
// budget. At least one message is always kept so a single oversized turn
// still produces context. Persistence errors yield an empty context rather
// than failing generation.
func (s *Service) windowContext(ctx context.Context, chatID uint, cfg ContextConfig) *ConversationContext {
	log := logger.GetLogger()

	recent, err := s.messages.ListByChat(ctx, chatID, chat.OrderDesc, cfg.MaxMessages, 0)
	if err != nil {
		log.Warn().Err(err).Uint("chat_id", chatID).Msg("context assembly failed, returning empty context")
		return &ConversationContext{}
	}

	// reverse into chronological order
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	kept := make([]*chat.Message, 0, len(recent))
	totalTokens := 0
	for _, message := range recent {
		messageTokens := estimateMessageTokens(message.Content)
		if totalTokens+messageTokens > cfg.MaxTokens && len(kept) > 0 {
			break
		}
		kept = append(kept, message)
		totalTokens += messageTokens
	}

	return &ConversationContext{
		Messages:        kept,
		EstimatedTokens: totalTokens,
		Truncated:       len(kept) < len(recent),
	}
}

// smartContext assembles a window and, when the window was truncated on a
// long conversation, attaches a summary of the full history.
func (s *Service) smartContext(ctx context.Context, chatID uint, cfg ContextConfig) *ConversationContext {
	cc := s.windowContext(ctx, chatID, cfg)

	if cc.Truncated && len(cc.Messages) > summaryWindowThreshold {
		log := logger.GetLogger()
		full, err := s.messages.ListByChat(ctx, chatID, chat.OrderAsc, 0, 0)
		if err != nil {
			log.Warn().Err(err).Uint("chat_id", chatID).Msg("failed to fetch full history for summary")
			return cc
		}
		if summary := summarizeHistory(full); summary != "" {
			cc.Summary = summary
			cc.HasSummary = true
		}
	}

	return cc
}

// summarizeHistory renders the chronologically first half of a conversation
// into a system-message digest. Conversations of five or fewer messages get
// no summary.
func summarizeHistory(messages []*chat.Message) string {
	if len(messages) <= summaryMinMessages {
		return ""
	}

	half := messages[:len(messages)/2]
	lines := make([]string, 0, len(half))
	for _, message := range half {
		snippet := message.Content
		if len(snippet) > summarySnippetLength {
			snippet = snippet[:summarySnippetLength] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s: %s", message.Role, snippet))
	}

	return summaryPreamble + strings.Join(lines, "\n") + summaryPostamble
}
