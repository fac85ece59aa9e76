package chat

import (
	"context"
	"time"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// IsValid reports whether the role is one the API accepts.
func (r MessageRole) IsValid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

type Message struct {
	ID           uint        `json:"-"`
	PublicID     string      `json:"id"` // string ID like "msg_abc123"
	ChatID       uint        `json:"-"`
	ChatPublicID string      `json:"chat_id,omitempty"`
	Role         MessageRole `json:"sender"`
	Content      string      `json:"content"`
	ImageID      *uint       `json:"-"`
	Image        *Image      `json:"image,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	FindByPublicID(ctx context.Context, publicID string) (*Message, error)
	// ListByChat returns messages ordered by creation time. A limit of 0
	// means no limit.
	ListByChat(ctx context.Context, chatID uint, order SortOrder, limit, offset int) ([]*Message, error)
	CountByChat(ctx context.Context, chatID uint) (int64, error)
	CountByChatAndRole(ctx context.Context, chatID uint, role MessageRole) (int64, error)
	// DeleteFrom removes every message in the chat created at or after the
	// given instant and reports how many rows were removed.
	DeleteFrom(ctx context.Context, chatID uint, from time.Time) (int64, error)
	// ListBefore returns the chat's messages created strictly before the
	// given instant in chronological order.
	ListBefore(ctx context.Context, chatID uint, before time.Time) ([]*Message, error)
	Delete(ctx context.Context, id uint) error
}

// NewMessage creates a message turn for a chat.
func NewMessage(publicID string, chatID uint, role MessageRole, content string, imageID *uint) *Message {
	return &Message{
		PublicID:  publicID,
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		ImageID:   imageID,
		CreatedAt: time.Now(),
	}
}
