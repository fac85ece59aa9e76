package image

// CreateImageRequest registers an uploaded image's metadata.
type CreateImageRequest struct {
	StorageKey   string `json:"storage_key" binding:"required,max=255"`
	URL          string `json:"url" binding:"required,url"`
	OriginalName string `json:"original_name" binding:"required"`
	Bytes        int64  `json:"bytes" binding:"omitempty,min=0"`
	Width        int    `json:"width" binding:"omitempty,min=0"`
	Height       int    `json:"height" binding:"omitempty,min=0"`
	Format       string `json:"format" binding:"omitempty,max=32"`
}
