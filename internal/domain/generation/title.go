package generation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harshrajput1506/chatgpt-clone/internal/config"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/metrics"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/stringutils"
)

const (
	titleMaxLength   = 50
	titleMaxWords    = 6
	titleMaxTokens   = 20
	titleTemperature = 0.3
)

const titleSystemPrompt = "Generate a concise, descriptive title (maximum 50 characters) for a conversation that starts with the given message. Return only the title, no quotes or extra text. Use title case."

// titleOpeners are conversational lead-ins the fallback strips before
// deriving a title. Ordered longest first so multi-word openers win over
// their single-word prefixes.
var titleOpeners = []string{
	"could you",
	"would you",
	"can you",
	"help me",
	"i need",
	"i want",
	"tell me",
	"show me",
	"give me",
	"what are",
	"what is",
	"how to",
	"explain",
	"please",
	"hello",
	"plan",
	"hey",
	"hi",
	"the",
	"an",
	"a",
}

// TitleGenerator derives chat titles from the first user message, preferring
// a cheap model call and falling back to a heuristic when the call fails.
type TitleGenerator struct {
	client CompletionClient
	model  string
}

// NewTitleGenerator creates a new title generator
func NewTitleGenerator(client CompletionClient, cfg *config.Config) *TitleGenerator {
	return &TitleGenerator{
		client: client,
		model:  cfg.TitleModel,
	}
}

// Generate returns a title for a chat whose first user message is firstMessage.
// It never fails; every error path degrades to the heuristic fallback.
func (g *TitleGenerator) Generate(ctx context.Context, firstMessage string) string {
	if title := g.aiTitle(ctx, firstMessage); title != "" {
		metrics.RecordTitleGenerated("ai")
		return title
	}
	metrics.RecordTitleGenerated("fallback")
	return FallbackTitle(firstMessage)
}

func (g *TitleGenerator) aiTitle(ctx context.Context, firstMessage string) string {
	if !g.client.IsConfigured() {
		return ""
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: titleSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Generate a title for this message: %q", firstMessage)},
		},
		MaxTokens:   titleMaxTokens,
		Temperature: titleTemperature,
	})
	if err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Msg("title generation failed, falling back to heuristic")
		return ""
	}

	title := strings.TrimSpace(firstChoiceContent(resp))
	title = stringutils.StripWrappingQuotes(title)
	title = stringutils.TrimTrailingPeriod(title)
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return stringutils.TruncateTitle(title, titleMaxLength)
}

// FallbackTitle derives a title from the message text alone. It iteratively
// strips conversational openers, keeps the first few remaining words, and
// capitalizes the result.
func FallbackTitle(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return chat.DefaultTitle
	}

	stripped := stripOpeners(trimmed)
	if stripped == "" {
		stripped = trimmed
	}

	words := strings.Fields(stripped)
	if len(words) > titleMaxWords {
		words = words[:titleMaxWords]
	}

	title := strings.Join(words, " ")
	title = stringutils.TruncateTitle(title, titleMaxLength)
	title = stringutils.CapitalizeFirst(title)
	if title == "" {
		return chat.DefaultTitle
	}
	return title
}

// stripOpeners repeatedly removes leading openers and their trailing
// punctuation until the remainder no longer starts with one.
func stripOpeners(s string) string {
	for {
		trimmed := strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		next := trimOpener(trimmed)
		if next == trimmed {
			return trimmed
		}
		s = next
	}
}

// trimOpener removes a single leading opener from s when one matches on a
// word boundary, preserving the casing of the remainder.
func trimOpener(s string) string {
	lower := strings.ToLower(s)
	for _, opener := range titleOpeners {
		if !strings.HasPrefix(lower, opener) {
			continue
		}
		rest := s[len(opener):]
		if rest != "" {
			r := []rune(rest)[0]
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		return rest
	}
	return s
}
