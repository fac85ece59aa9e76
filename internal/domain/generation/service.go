package generation

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harshrajput1506/chatgpt-clone/internal/config"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/metrics"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/idgen"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// Context assembly bounds. The streaming path uses a slightly smaller window
// to keep time-to-first-chunk low.
const (
	syncContextMaxMessages   = 25
	streamContextMaxMessages = 20
	contextMaxTokens         = 3000
)

// roughTokensPerMessage is the coarse per-turn cost the regeneration path
// reports. Regeneration sends the exact remaining history, so it never runs
// the precise token walk of the context assembler.
const roughTokensPerMessage = 50

func roughHistoryTokens(count int) int {
	return count * roughTokensPerMessage
}

// Service orchestrates AI response generation: context assembly, completion
// calls, exactly-once persistence of the assistant turn, and regeneration.
type Service struct {
	chats    chat.ChatRepository
	messages chat.MessageRepository
	client   CompletionClient
	cfg      *config.Config
}

// NewService creates a new generation service
func NewService(chats chat.ChatRepository, messages chat.MessageRepository, client CompletionClient, cfg *config.Config) *Service {
	return &Service{
		chats:    chats,
		messages: messages,
		client:   client,
		cfg:      cfg,
	}
}

// GenerateOptions carries caller-tunable completion parameters. Zero values
// fall back to configured defaults; Temperature is a pointer because zero is
// a valid temperature.
type GenerateOptions struct {
	Model                string
	MaxTokens            int
	Temperature          *float32
	IncludeSystemMessage bool
}

// ContextReport summarizes the context that backed a generation.
type ContextReport struct {
	MessagesUsed      int  `json:"messagesUsed"`
	Truncated         bool `json:"truncated"`
	HasContextSummary bool `json:"hasContextSummary"`
	EstimatedTokens   int  `json:"estimatedTokens"`
}

// GenerateResult is the outcome of a synchronous generation.
type GenerateResult struct {
	Message *chat.Message
	Usage   openai.Usage
	Model   string
	Context ContextReport
}

// RegenerateResult additionally carries the full updated chat history.
type RegenerateResult struct {
	Chat    *chat.Chat
	Message *chat.Message
	Usage   openai.Usage
	Model   string
	Context ContextReport
}

// Generate produces one assistant turn for the chat and persists it.
func (s *Service) Generate(ctx context.Context, chatPublicID string, opts GenerateOptions) (*GenerateResult, error) {
	if !s.client.IsConfigured() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnavailable, "AI backend is not configured", nil, "")
	}

	target, err := s.chats.FindByPublicID(ctx, chatPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat not found")
	}

	cc := s.smartContext(ctx, target.ID, ContextConfig{
		MaxMessages:          syncContextMaxMessages,
		MaxTokens:            contextMaxTokens,
		IncludeSystemMessage: opts.IncludeSystemMessage,
	})
	if err := validateLastTurn(ctx, cc); err != nil {
		return nil, err
	}

	model, req := s.buildRequest(cc, opts)
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	metrics.RecordLLMDuration(model, false, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordGeneration("sync", "upstream_error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "completion request failed", err, "")
	}

	content := firstChoiceContent(resp)
	if content == "" {
		metrics.RecordGeneration("sync", "empty_response")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "no response generated", nil, "")
	}

	message, err := s.persistAssistantTurn(ctx, target, content)
	if err != nil {
		return nil, err
	}

	metrics.RecordGeneration("sync", "ok")
	metrics.RecordTokens(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return &GenerateResult{
		Message: message,
		Usage:   resp.Usage,
		Model:   resp.Model,
		Context: contextReport(cc),
	}, nil
}

// GenerateStream produces one assistant turn while forwarding every upstream
// fragment to the emitter in arrival order. The assistant turn is persisted
// exactly once, after the upstream stream has ended; an upstream failure
// mid-stream persists nothing.
func (s *Service) GenerateStream(ctx context.Context, chatPublicID string, opts GenerateOptions, emitter StreamEmitter) error {
	if !s.client.IsConfigured() {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnavailable, "AI backend is not configured", nil, "")
	}

	target, err := s.chats.FindByPublicID(ctx, chatPublicID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat not found")
	}

	cc := s.smartContext(ctx, target.ID, ContextConfig{
		MaxMessages:          streamContextMaxMessages,
		MaxTokens:            contextMaxTokens,
		IncludeSystemMessage: opts.IncludeSystemMessage,
	})
	if err := validateLastTurn(ctx, cc); err != nil {
		return err
	}

	model, req := s.buildRequest(cc, opts)
	req.Stream = true

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	var buffer strings.Builder
	start := time.Now()
	err = s.client.StreamChatCompletion(ctx, req, func(delta StreamDelta) error {
		deltaModel := delta.Model
		if deltaModel == "" {
			deltaModel = model
		}
		if err := emitter.Chunk(delta.Content, deltaModel); err != nil {
			return err
		}
		buffer.WriteString(delta.Content)
		return nil
	})
	metrics.RecordLLMDuration(model, true, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordGeneration("stream", "upstream_error")
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "streaming completion failed", err, "")
	}

	fullContent := buffer.String()
	if fullContent == "" {
		metrics.RecordGeneration("stream", "empty_response")
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "no response generated", nil, "")
	}

	message, err := s.persistAssistantTurn(ctx, target, fullContent)
	if err != nil {
		return err
	}

	metrics.RecordGeneration("stream", "ok")

	if err := emitter.Complete(message.PublicID, fullContent, contextReport(cc)); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("chat_id", chatPublicID).Msg("failed to emit completion event")
	}
	return nil
}

// Regenerate discards the target assistant turn and every later turn, then
// generates a fresh assistant turn from the remaining history.
func (s *Service) Regenerate(ctx context.Context, chatPublicID, messagePublicID string, opts GenerateOptions) (*RegenerateResult, error) {
	if !s.client.IsConfigured() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnavailable, "AI backend is not configured", nil, "")
	}

	target, cc, err := s.truncateForRegeneration(ctx, chatPublicID, messagePublicID)
	if err != nil {
		return nil, err
	}

	model, req := s.buildRequest(cc, opts)
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	metrics.RecordLLMDuration(model, false, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordGeneration("regenerate", "upstream_error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "completion request failed", err, "")
	}

	content := firstChoiceContent(resp)
	if content == "" {
		metrics.RecordGeneration("regenerate", "empty_response")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "no response generated", nil, "")
	}

	message, err := s.persistAssistantTurn(ctx, target, content)
	if err != nil {
		return nil, err
	}

	metrics.RecordGeneration("regenerate", "ok")
	metrics.RecordTokens(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	updated, err := s.chats.FindByPublicIDWithMessages(ctx, chatPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to reload chat")
	}

	return &RegenerateResult{
		Chat:    updated,
		Message: message,
		Usage:   resp.Usage,
		Model:   resp.Model,
		Context: contextReport(cc),
	}, nil
}

// RegenerateStream applies the same destructive truncation as Regenerate and
// then streams the replacement turn with GenerateStream's chunk semantics.
func (s *Service) RegenerateStream(ctx context.Context, chatPublicID, messagePublicID string, opts GenerateOptions, emitter StreamEmitter) error {
	if !s.client.IsConfigured() {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnavailable, "AI backend is not configured", nil, "")
	}

	target, cc, err := s.truncateForRegeneration(ctx, chatPublicID, messagePublicID)
	if err != nil {
		return err
	}

	model, req := s.buildRequest(cc, opts)
	req.Stream = true

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	var buffer strings.Builder
	start := time.Now()
	err = s.client.StreamChatCompletion(ctx, req, func(delta StreamDelta) error {
		deltaModel := delta.Model
		if deltaModel == "" {
			deltaModel = model
		}
		if err := emitter.Chunk(delta.Content, deltaModel); err != nil {
			return err
		}
		buffer.WriteString(delta.Content)
		return nil
	})
	metrics.RecordLLMDuration(model, true, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordGeneration("regenerate_stream", "upstream_error")
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "streaming completion failed", err, "")
	}

	fullContent := buffer.String()
	if fullContent == "" {
		metrics.RecordGeneration("regenerate_stream", "empty_response")
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "no response generated", nil, "")
	}

	message, err := s.persistAssistantTurn(ctx, target, fullContent)
	if err != nil {
		return err
	}

	metrics.RecordGeneration("regenerate_stream", "ok")

	if err := emitter.Complete(message.PublicID, fullContent, contextReport(cc)); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("chat_id", chatPublicID).Msg("failed to emit completion event")
	}
	return nil
}

// truncateForRegeneration validates the regeneration target, deletes the
// chronological suffix starting at it, and builds a context from the exact
// remaining history.
func (s *Service) truncateForRegeneration(ctx context.Context, chatPublicID, messagePublicID string) (*chat.Chat, *ConversationContext, error) {
	target, err := s.chats.FindByPublicID(ctx, chatPublicID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat not found")
	}

	message, err := s.messages.FindByPublicID(ctx, messagePublicID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}

	if message.ChatID != target.ID {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message does not belong to this chat", nil, "")
	}
	if message.Role != chat.MessageRoleAssistant {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "only assistant messages can be regenerated", nil, "")
	}

	deleted, err := s.messages.DeleteFrom(ctx, target.ID, message.CreatedAt)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete messages")
	}

	log := logger.GetLogger()
	log.Info().
		Str("chat_id", chatPublicID).
		Str("message_id", messagePublicID).
		Int64("deleted", deleted).
		Msg("truncated chat history for regeneration")

	remaining, err := s.messages.ListBefore(ctx, target.ID, message.CreatedAt)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list remaining messages")
	}

	cc := &ConversationContext{
		Messages:        remaining,
		EstimatedTokens: roughHistoryTokens(len(remaining)),
	}
	if err := validateLastTurn(ctx, cc); err != nil {
		return nil, nil, err
	}

	return target, cc, nil
}

// buildRequest resolves option defaults and formats the completion request.
func (s *Service) buildRequest(cc *ConversationContext, opts GenerateOptions) (string, openai.ChatCompletionRequest) {
	model := opts.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.cfg.DefaultMaxTokens
	}
	temperature := s.cfg.DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	return model, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    FormatMessages(cc),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// validateLastTurn enforces the precondition that the model always responds
// to a user turn.
func validateLastTurn(ctx context.Context, cc *ConversationContext) error {
	if len(cc.Messages) == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "no messages found in conversation", nil, "")
	}
	if last := cc.Messages[len(cc.Messages)-1]; last.Role != chat.MessageRoleUser {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "last message must be from user to generate a response", nil, "")
	}
	return nil
}

// persistAssistantTurn writes the single assistant message produced by a
// successful generation.
func (s *Service) persistAssistantTurn(ctx context.Context, target *chat.Chat, content string) (*chat.Message, error) {
	publicID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
	}

	message := chat.NewMessage(publicID, target.ID, chat.MessageRoleAssistant, content, nil)
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist assistant message")
	}
	message.ChatPublicID = target.PublicID

	target.UpdatedAt = message.CreatedAt
	if err := s.chats.Update(ctx, target); err != nil {
		// timestamp bump only, the message is already persisted
		log := logger.GetLogger()
		log.Warn().Err(err).Str("chat_id", target.PublicID).Msg("failed to bump chat timestamp")
	}

	return message, nil
}

func firstChoiceContent(resp *openai.ChatCompletionResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

func contextReport(cc *ConversationContext) ContextReport {
	return ContextReport{
		MessagesUsed:      len(cc.Messages),
		Truncated:         cc.Truncated,
		HasContextSummary: cc.HasSummary,
		EstimatedTokens:   cc.EstimatedTokens,
	}
}
