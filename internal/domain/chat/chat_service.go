package chat

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/idgen"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// ChatService handles business logic for chats and their messages
type ChatService struct {
	chats    ChatRepository
	messages MessageRepository
	images   ImageRepository
	validate *validator.Validate
}

// NewChatService creates a new chat service
func NewChatService(chats ChatRepository, messages MessageRepository, images ImageRepository) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		images:   images,
		validate: validator.New(),
	}
}

// ===============================================
// Chat Operations
// ===============================================

// CreateChatInput represents the input for creating a chat
type CreateChatInput struct {
	UserID string `validate:"required"`
	Title  string `validate:"omitempty,max=256"`
}

// UpdateChatInput represents the input for updating a chat
type UpdateChatInput struct {
	Title string `validate:"required,max=256"`
}

// CreateChat creates a new chat owned by the given user scope.
func (s *ChatService) CreateChat(ctx context.Context, input CreateChatInput) (*Chat, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "chat validation failed", err, "")
	}

	publicID, err := idgen.GenerateSecureID("chat", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate chat ID")
	}

	chat := NewChat(publicID, input.UserID, input.Title)
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create chat")
	}

	return chat, nil
}

// GetChat retrieves a chat by public ID. A non-empty userID restricts access
// to chats created under the same scope.
func (s *ChatService) GetChat(ctx context.Context, publicID, userID string) (*Chat, error) {
	chat, err := s.chats.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat not found")
	}

	if userID != "" && chat.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "chat not found", nil, "")
	}

	return chat, nil
}

// GetChatWithMessages retrieves a chat and all its messages in chronological order.
func (s *ChatService) GetChatWithMessages(ctx context.Context, publicID, userID string) (*Chat, error) {
	chat, err := s.chats.FindByPublicIDWithMessages(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "chat not found")
	}

	if userID != "" && chat.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "chat not found", nil, "")
	}

	return chat, nil
}

// ListChats returns every chat in the given user scope, newest first.
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]*Chat, int64, error) {
	filter := ChatFilter{}
	if userID != "" {
		filter.UserID = &userID
	}

	chats, err := s.chats.FindByFilter(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list chats")
	}

	total, err := s.chats.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count chats")
	}

	return chats, total, nil
}

// UpdateChat updates a chat's title.
func (s *ChatService) UpdateChat(ctx context.Context, publicID, userID string, input UpdateChatInput) (*Chat, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "chat validation failed", err, "")
	}

	chat, err := s.GetChat(ctx, publicID, userID)
	if err != nil {
		return nil, err
	}

	chat.Title = input.Title
	chat.UpdatedAt = time.Now()
	if err := s.chats.Update(ctx, chat); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update chat")
	}

	return chat, nil
}

// RenameChat replaces the chat title without touching other fields. Used by
// automatic title generation, which must never surface validation errors.
func (s *ChatService) RenameChat(ctx context.Context, chat *Chat, title string) error {
	chat.Title = title
	chat.UpdatedAt = time.Now()
	if err := s.chats.Update(ctx, chat); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to rename chat")
	}
	return nil
}

// DeleteChat removes a chat and all of its messages.
func (s *ChatService) DeleteChat(ctx context.Context, publicID, userID string) error {
	chat, err := s.GetChat(ctx, publicID, userID)
	if err != nil {
		return err
	}

	if err := s.chats.Delete(ctx, chat.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete chat")
	}
	return nil
}

// ===============================================
// Message Operations
// ===============================================

// CreateMessageInput represents the input for appending a message to a chat
type CreateMessageInput struct {
	ChatPublicID  string      `validate:"required"`
	UserID        string      `validate:"-"`
	Role          MessageRole `validate:"required,oneof=user assistant"`
	Content       string      `validate:"required"`
	ImagePublicID string      `validate:"-"`
}

// CreateMessageResult carries the created message plus whether the chat is
// eligible for automatic title generation from this message.
type CreateMessageResult struct {
	Message       *Message
	Chat          *Chat
	TitleEligible bool
}

// CreateMessage appends a message to a chat. The result reports title
// eligibility: a user message landing in an empty chat that still has its
// placeholder title.
func (s *ChatService) CreateMessage(ctx context.Context, input CreateMessageInput) (*CreateMessageResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message validation failed", err, "")
	}

	chat, err := s.GetChat(ctx, input.ChatPublicID, input.UserID)
	if err != nil {
		return nil, err
	}

	priorCount, err := s.messages.CountByChat(ctx, chat.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count messages")
	}

	var imageID *uint
	if input.ImagePublicID != "" {
		image, err := s.images.FindByPublicID(ctx, input.ImagePublicID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "image not found")
		}
		imageID = &image.ID
	}

	publicID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
	}

	message := NewMessage(publicID, chat.ID, input.Role, input.Content, imageID)
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create message")
	}
	message.ChatPublicID = chat.PublicID

	chat.UpdatedAt = message.CreatedAt
	if err := s.chats.Update(ctx, chat); err != nil {
		// timestamp bump only, the message is already persisted
		log := logger.GetLogger()
		log.Warn().Err(err).Str("chat_id", chat.PublicID).Msg("failed to bump chat timestamp")
	}

	return &CreateMessageResult{
		Message:       message,
		Chat:          chat,
		TitleEligible: input.Role == MessageRoleUser && priorCount == 0 && chat.HasDefaultTitle(),
	}, nil
}

// ListMessages returns a page of a chat's messages in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, chatPublicID, userID string, page, limit int) ([]*Message, int64, error) {
	chat, err := s.GetChat(ctx, chatPublicID, userID)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	messages, err := s.messages.ListByChat(ctx, chat.ID, OrderAsc, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}

	total, err := s.messages.CountByChat(ctx, chat.ID)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count messages")
	}

	return messages, total, nil
}

// DeleteMessage removes a single message by public ID.
func (s *ChatService) DeleteMessage(ctx context.Context, messagePublicID string) error {
	message, err := s.messages.FindByPublicID(ctx, messagePublicID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}

	if err := s.messages.Delete(ctx, message.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete message")
	}
	return nil
}

// FirstUserMessage returns the chronologically first user message of a chat.
func (s *ChatService) FirstUserMessage(ctx context.Context, chatID uint) (*Message, error) {
	messages, err := s.messages.ListByChat(ctx, chatID, OrderAsc, 0, 0)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}

	for _, message := range messages {
		if message.Role == MessageRoleUser {
			return message, nil
		}
	}

	return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "chat has no user messages", nil, "")
}
