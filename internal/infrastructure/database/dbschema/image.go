package dbschema

import (
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
)

// Image represents the database schema for uploaded image attachments
type Image struct {
	BaseModel
	PublicID     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	StorageKey   string `gorm:"type:varchar(255);uniqueIndex;not null"`
	URL          string `gorm:"type:text;not null"`
	OriginalName string `gorm:"type:varchar(255);not null"`
	Bytes        int64  `gorm:"not null;default:0"`
	Width        int    `gorm:"not null;default:0"`
	Height       int    `gorm:"not null;default:0"`
	Format       string `gorm:"type:varchar(32)"`
}

// NewSchemaImage creates a database schema from a domain image
func NewSchemaImage(i *chat.Image) *Image {
	return &Image{
		BaseModel: BaseModel{
			ID:        i.ID,
			CreatedAt: i.CreatedAt,
		},
		PublicID:     i.PublicID,
		StorageKey:   i.StorageKey,
		URL:          i.URL,
		OriginalName: i.OriginalName,
		Bytes:        i.Bytes,
		Width:        i.Width,
		Height:       i.Height,
		Format:       i.Format,
	}
}

// EtoD converts database schema to domain image (Entity to Domain)
func (i *Image) EtoD() *chat.Image {
	return &chat.Image{
		ID:           i.ID,
		PublicID:     i.PublicID,
		StorageKey:   i.StorageKey,
		URL:          i.URL,
		OriginalName: i.OriginalName,
		Bytes:        i.Bytes,
		Width:        i.Width,
		Height:       i.Height,
		Format:       i.Format,
		CreatedAt:    i.CreatedAt,
	}
}
