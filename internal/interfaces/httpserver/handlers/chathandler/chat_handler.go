package chathandler

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/generation"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/observability"
	chatrequests "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/requests/chat"
	chatresponses "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/responses/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// ChatHandler handles chat and message HTTP requests
type ChatHandler struct {
	chatService *chat.ChatService
	titles      *generation.TitleGenerator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.ChatService, titles *generation.TitleGenerator) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		titles:      titles,
	}
}

// CreateChat creates a new chat
func (h *ChatHandler) CreateChat(ctx context.Context, req chatrequests.CreateChatRequest) (*chat.Chat, error) {
	created, err := h.chatService.CreateChat(ctx, chat.CreateChatInput{
		UserID: req.UserID,
		Title:  req.Title,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create chat")
	}
	return created, nil
}

// ListChats lists all chats for a user
func (h *ChatHandler) ListChats(ctx context.Context, userID string) (*chatresponses.ChatListResponse, error) {
	chats, total, err := h.chatService.ListChats(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list chats")
	}
	return &chatresponses.ChatListResponse{Chats: chats, Total: total}, nil
}

// GetChat retrieves a chat with its messages
func (h *ChatHandler) GetChat(ctx context.Context, chatPublicID, userID string) (*chat.Chat, error) {
	found, err := h.chatService.GetChatWithMessages(ctx, chatPublicID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get chat")
	}
	return found, nil
}

// UpdateChat renames a chat
func (h *ChatHandler) UpdateChat(ctx context.Context, chatPublicID, userID string, req chatrequests.UpdateChatRequest) (*chat.Chat, error) {
	updated, err := h.chatService.UpdateChat(ctx, chatPublicID, userID, chat.UpdateChatInput{Title: req.Title})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update chat")
	}
	return updated, nil
}

// DeleteChat removes a chat and its messages
func (h *ChatHandler) DeleteChat(ctx context.Context, chatPublicID, userID string) error {
	if err := h.chatService.DeleteChat(ctx, chatPublicID, userID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete chat")
	}
	return nil
}

// GenerateTitle synthesizes a fresh title from the chat's first user message
func (h *ChatHandler) GenerateTitle(ctx context.Context, chatPublicID, userID string) (*chat.Chat, error) {
	target, err := h.chatService.GetChat(ctx, chatPublicID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get chat")
	}

	first, err := h.chatService.FirstUserMessage(ctx, target.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "chat has no user messages")
	}

	title := h.titles.Generate(ctx, first.Content)
	if err := h.chatService.RenameChat(ctx, target, title); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to rename chat")
	}
	return target, nil
}

// CreateMessage appends a turn to a chat and triggers the auto-title hook
// when this is the chat's first user message.
func (h *ChatHandler) CreateMessage(ctx context.Context, chatPublicID, userID string, req chatrequests.CreateMessageRequest) (*chat.Message, error) {
	ctx, span := observability.StartSpan(ctx, "chat-api", "ChatHandler.CreateMessage")
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("chat.id", chatPublicID),
		attribute.String("message.role", req.Sender),
		attribute.Bool("message.has_image", req.ImageID != ""),
	)

	result, err := h.chatService.CreateMessage(ctx, chat.CreateMessageInput{
		ChatPublicID:  chatPublicID,
		UserID:        userID,
		Role:          chat.MessageRole(req.Sender),
		Content:       req.Content,
		ImagePublicID: req.ImageID,
	})
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create message")
	}

	if result.TitleEligible {
		observability.AddSpanEvent(ctx, "auto_title_triggered")
		h.autoTitle(ctx, result.Chat, result.Message.Content)
	}

	return result.Message, nil
}

// autoTitle updates the chat title from its first user message. Failures are
// logged and swallowed, title generation never fails message creation.
func (h *ChatHandler) autoTitle(ctx context.Context, target *chat.Chat, firstMessage string) {
	title := h.titles.Generate(ctx, firstMessage)
	if err := h.chatService.RenameChat(ctx, target, title); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("chat_id", target.PublicID).Msg("failed to apply generated title")
	}
}

// ListMessages returns one page of a chat's messages
func (h *ChatHandler) ListMessages(ctx context.Context, chatPublicID, userID string, query chatrequests.ListMessagesQuery) (*chatresponses.MessageListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 50
	}

	messages, total, err := h.chatService.ListMessages(ctx, chatPublicID, userID, page, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list messages")
	}

	return &chatresponses.MessageListResponse{
		Messages: messages,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// DeleteMessage removes a single message
func (h *ChatHandler) DeleteMessage(ctx context.Context, messagePublicID string) error {
	if err := h.chatService.DeleteMessage(ctx, messagePublicID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete message")
	}
	return nil
}
