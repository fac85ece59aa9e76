package imagerepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/dbschema"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// ImageRepository persists image attachment records in PostgreSQL.
type ImageRepository struct {
	db *gorm.DB
}

var _ chat.ImageRepository = (*ImageRepository)(nil)

// NewImageRepository constructs the image repository.
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts an image record.
func (r *ImageRepository) Create(ctx context.Context, image *chat.Image) error {
	entity := dbschema.NewSchemaImage(image)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create image",
			err,
			"",
		)
	}
	image.ID = entity.ID
	return nil
}

// FindByID retrieves an image by internal ID.
func (r *ImageRepository) FindByID(ctx context.Context, id uint) (*chat.Image, error) {
	var entity dbschema.Image
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, r.wrapNotFound(ctx, err, fmt.Sprintf("image not found: %d", id))
	}
	return entity.EtoD(), nil
}

// FindByPublicID retrieves an image by its public ID.
func (r *ImageRepository) FindByPublicID(ctx context.Context, publicID string) (*chat.Image, error) {
	var entity dbschema.Image
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error; err != nil {
		return nil, r.wrapNotFound(ctx, err, fmt.Sprintf("image not found: %s", publicID))
	}
	return entity.EtoD(), nil
}

// FindByStorageKey retrieves an image by its storage reference.
func (r *ImageRepository) FindByStorageKey(ctx context.Context, storageKey string) (*chat.Image, error) {
	var entity dbschema.Image
	if err := r.db.WithContext(ctx).Where("storage_key = ?", storageKey).First(&entity).Error; err != nil {
		return nil, r.wrapNotFound(ctx, err, fmt.Sprintf("image not found: %s", storageKey))
	}
	return entity.EtoD(), nil
}

// List returns a page of images, newest first.
func (r *ImageRepository) List(ctx context.Context, limit, offset int) ([]*chat.Image, error) {
	query := r.db.WithContext(ctx).Model(&dbschema.Image{}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var entities []dbschema.Image
	if err := query.Find(&entities).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list images",
			err,
			"",
		)
	}

	images := make([]*chat.Image, len(entities))
	for i := range entities {
		images[i] = entities[i].EtoD()
	}
	return images, nil
}

// Count returns the total number of images.
func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dbschema.Image{}).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count images",
			err,
			"",
		)
	}
	return count, nil
}

// Delete removes an image record by ID.
func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&dbschema.Image{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete image",
			err,
			"",
		)
	}
	return nil
}

func (r *ImageRepository) wrapNotFound(ctx context.Context, err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			message,
			nil,
			"",
		)
	}
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeDatabaseError,
		"failed to find image",
		err,
		"",
	)
}
