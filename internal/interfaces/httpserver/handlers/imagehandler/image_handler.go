package imagehandler

import (
	"context"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	imagerequests "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/requests/image"
	chatresponses "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/responses/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// ImageHandler handles image attachment HTTP requests
type ImageHandler struct {
	imageService *chat.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *chat.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// CreateImage registers an uploaded image's metadata
func (h *ImageHandler) CreateImage(ctx context.Context, req imagerequests.CreateImageRequest) (*chat.Image, error) {
	image, err := h.imageService.CreateImage(ctx, chat.CreateImageInput{
		StorageKey:   req.StorageKey,
		URL:          req.URL,
		OriginalName: req.OriginalName,
		Bytes:        req.Bytes,
		Width:        req.Width,
		Height:       req.Height,
		Format:       req.Format,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to register image")
	}
	return image, nil
}

// GetImage retrieves an image by public ID
func (h *ImageHandler) GetImage(ctx context.Context, publicID string) (*chat.Image, error) {
	image, err := h.imageService.GetImage(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get image")
	}
	return image, nil
}

// ListImages returns a page of registered images
func (h *ImageHandler) ListImages(ctx context.Context, page, limit int) (*chatresponses.ImageListResponse, error) {
	images, total, err := h.imageService.ListImages(ctx, page, limit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list images")
	}
	return &chatresponses.ImageListResponse{Images: images, Total: total}, nil
}

// DeleteImage removes an image record
func (h *ImageHandler) DeleteImage(ctx context.Context, publicID string) error {
	if err := h.imageService.DeleteImage(ctx, publicID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete image")
	}
	return nil
}
