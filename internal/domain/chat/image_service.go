package chat

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/harshrajput1506/chatgpt-clone/internal/utils/idgen"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// ImageService handles registration and lookup of uploaded image attachments.
// The bytes themselves live in an external store; this service only records
// the stable storage reference and the resolved URL.
type ImageService struct {
	images   ImageRepository
	validate *validator.Validate
}

// NewImageService creates a new image service
func NewImageService(images ImageRepository) *ImageService {
	return &ImageService{
		images:   images,
		validate: validator.New(),
	}
}

// CreateImageInput represents the input for registering an uploaded image
type CreateImageInput struct {
	StorageKey   string `validate:"required,max=255"`
	URL          string `validate:"required,url"`
	OriginalName string `validate:"required,max=255"`
	Bytes        int64  `validate:"omitempty,min=0"`
	Width        int    `validate:"omitempty,min=0"`
	Height       int    `validate:"omitempty,min=0"`
	Format       string `validate:"omitempty,max=32"`
}

// CreateImage registers an uploaded image. Registering the same storage key
// twice is a conflict.
func (s *ImageService) CreateImage(ctx context.Context, input CreateImageInput) (*Image, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "image validation failed", err, "")
	}

	if existing, err := s.images.FindByStorageKey(ctx, input.StorageKey); err == nil && existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "image with this storage key already exists", nil, "")
	}

	publicID, err := idgen.GenerateSecureID("img", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate image ID")
	}

	image := NewImage(publicID, input.StorageKey, input.URL, input.OriginalName)
	image.Bytes = input.Bytes
	image.Width = input.Width
	image.Height = input.Height
	image.Format = input.Format

	if err := s.images.Create(ctx, image); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create image")
	}

	return image, nil
}

// GetImage retrieves an image by public ID.
func (s *ImageService) GetImage(ctx context.Context, publicID string) (*Image, error) {
	image, err := s.images.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "image not found")
	}
	return image, nil
}

// ListImages returns a page of images, newest first.
func (s *ImageService) ListImages(ctx context.Context, page, limit int) ([]*Image, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	images, err := s.images.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list images")
	}

	total, err := s.images.Count(ctx)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count images")
	}

	return images, total, nil
}

// DeleteImage removes an image record.
func (s *ImageService) DeleteImage(ctx context.Context, publicID string) error {
	image, err := s.GetImage(ctx, publicID)
	if err != nil {
		return err
	}

	if err := s.images.Delete(ctx, image.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete image")
	}
	return nil
}
