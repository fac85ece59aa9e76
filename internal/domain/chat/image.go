package chat

import (
	"context"
	"time"
)

// Image is an uploaded attachment that user turns can reference. The storage
// key is the stable reference into the external store, the URL the resolved
// location clients can fetch.
type Image struct {
	ID           uint      `json:"-"`
	PublicID     string    `json:"id"` // string ID like "img_abc123"
	StorageKey   string    `json:"storage_key"`
	URL          string    `json:"url"`
	OriginalName string    `json:"original_name"`
	Bytes        int64     `json:"bytes,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Format       string    `json:"format,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ImageRepository interface {
	Create(ctx context.Context, image *Image) error
	FindByID(ctx context.Context, id uint) (*Image, error)
	FindByPublicID(ctx context.Context, publicID string) (*Image, error)
	FindByStorageKey(ctx context.Context, storageKey string) (*Image, error)
	List(ctx context.Context, limit, offset int) ([]*Image, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// NewImage creates an image attachment record.
func NewImage(publicID, storageKey, url, originalName string) *Image {
	return &Image{
		PublicID:     publicID,
		StorageKey:   storageKey,
		URL:          url,
		OriginalName: originalName,
		CreatedAt:    time.Now(),
	}
}
