package chat

import (
	"context"
	"strings"
	"time"
)

// DefaultTitle is the title a chat is created with before a real one is
// synthesized from its first user message.
const DefaultTitle = "New Chat"

type Chat struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"` // string ID like "chat_abc123"
	Title     string    `json:"title"`
	UserID    string    `json:"user_id,omitempty"` // opaque caller-supplied scope, no auth semantics
	Messages  []Message `json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatFilter struct {
	ID       *uint
	PublicID *string
	UserID   *string
}

type ChatRepository interface {
	Create(ctx context.Context, chat *Chat) error
	FindByFilter(ctx context.Context, filter ChatFilter) ([]*Chat, error)
	Count(ctx context.Context, filter ChatFilter) (int64, error)
	FindByID(ctx context.Context, id uint) (*Chat, error)
	FindByPublicID(ctx context.Context, publicID string) (*Chat, error)
	// FindByPublicIDWithMessages preloads every message in chronological order.
	FindByPublicIDWithMessages(ctx context.Context, publicID string) (*Chat, error)
	Update(ctx context.Context, chat *Chat) error
	// Delete removes the chat and cascades to its messages.
	Delete(ctx context.Context, id uint) error
}

// NewChat creates a new chat with the given parameters. An empty title falls
// back to DefaultTitle.
func NewChat(publicID, userID, title string) *Chat {
	now := time.Now()
	if title == "" {
		title = DefaultTitle
	}
	return &Chat{
		PublicID:  publicID,
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasDefaultTitle reports whether the chat still carries its placeholder
// title and is therefore eligible for automatic title generation.
func (c *Chat) HasDefaultTitle() bool {
	return strings.HasPrefix(c.Title, DefaultTitle)
}
