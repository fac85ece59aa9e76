package dbschema

import (
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
)

// Message represents the database schema for chat messages
type Message struct {
	BaseModel
	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	ChatID   uint   `gorm:"index;not null"`
	Chat     Chat   `gorm:"foreignKey:ChatID"`
	Role     string `gorm:"type:varchar(20);not null"`
	Content  string `gorm:"type:text;not null"`
	ImageID  *uint  `gorm:"index"`
	Image    *Image `gorm:"foreignKey:ImageID"`
}

// NewSchemaMessage creates a database schema from a domain message
func NewSchemaMessage(m *chat.Message) *Message {
	return &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		PublicID: m.PublicID,
		ChatID:   m.ChatID,
		Role:     string(m.Role),
		Content:  m.Content,
		ImageID:  m.ImageID,
	}
}

// EtoD converts database schema to domain message (Entity to Domain)
func (m *Message) EtoD() *chat.Message {
	message := &chat.Message{
		ID:        m.ID,
		PublicID:  m.PublicID,
		ChatID:    m.ChatID,
		Role:      chat.MessageRole(m.Role),
		Content:   m.Content,
		ImageID:   m.ImageID,
		CreatedAt: m.CreatedAt,
	}

	if m.Image != nil {
		message.Image = m.Image.EtoD()
	}

	return message
}
