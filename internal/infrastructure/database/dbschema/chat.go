package dbschema

import (
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Chat{})
	database.RegisterSchemaForAutoMigrate(Message{})
	database.RegisterSchemaForAutoMigrate(Image{})
}

// Chat represents the database schema for chats
type Chat struct {
	BaseModel
	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title    string `gorm:"type:varchar(256);not null;default:'New Chat'"`
	UserID   string `gorm:"type:varchar(128);index"`

	Messages []Message `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// NewSchemaChat creates a database schema from a domain chat
func NewSchemaChat(c *chat.Chat) *Chat {
	return &Chat{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID: c.PublicID,
		Title:    c.Title,
		UserID:   c.UserID,
	}
}

// EtoD converts database schema to domain chat (Entity to Domain)
func (c *Chat) EtoD() *chat.Chat {
	domainChat := &chat.Chat{
		ID:        c.ID,
		PublicID:  c.PublicID,
		Title:     c.Title,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	if len(c.Messages) > 0 {
		domainChat.Messages = make([]chat.Message, 0, len(c.Messages))
		for i := range c.Messages {
			message := c.Messages[i].EtoD()
			message.ChatPublicID = c.PublicID
			domainChat.Messages = append(domainChat.Messages, *message)
		}
	}

	return domainChat
}
