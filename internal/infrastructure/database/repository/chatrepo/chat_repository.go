package chatrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/dbschema"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// ChatRepository persists chats in PostgreSQL.
type ChatRepository struct {
	db *gorm.DB
}

var _ chat.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository constructs the chat repository.
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create inserts a chat.
func (r *ChatRepository) Create(ctx context.Context, c *chat.Chat) error {
	entity := dbschema.NewSchemaChat(c)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create chat",
			err,
			"",
		)
	}
	c.ID = entity.ID
	return nil
}

// FindByFilter retrieves chats matching the filter, newest activity first.
func (r *ChatRepository) FindByFilter(ctx context.Context, filter chat.ChatFilter) ([]*chat.Chat, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.Chat{}), filter)

	var entities []dbschema.Chat
	if err := query.Order("updated_at DESC").Find(&entities).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find chats",
			err,
			"",
		)
	}

	chats := make([]*chat.Chat, len(entities))
	for i := range entities {
		chats[i] = entities[i].EtoD()
	}
	return chats, nil
}

// Count returns the count of chats matching the filter.
func (r *ChatRepository) Count(ctx context.Context, filter chat.ChatFilter) (int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&dbschema.Chat{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count chats",
			err,
			"",
		)
	}
	return count, nil
}

// FindByID retrieves a chat by its internal ID.
func (r *ChatRepository) FindByID(ctx context.Context, id uint) (*chat.Chat, error) {
	var entity dbschema.Chat
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, r.wrapNotFound(ctx, err, fmt.Sprintf("chat not found: %d", id))
	}
	return entity.EtoD(), nil
}

// FindByPublicID retrieves a chat by its public ID.
func (r *ChatRepository) FindByPublicID(ctx context.Context, publicID string) (*chat.Chat, error) {
	var entity dbschema.Chat
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error; err != nil {
		return nil, r.wrapNotFound(ctx, err, fmt.Sprintf("chat not found: %s", publicID))
	}
	return entity.EtoD(), nil
}

// FindByPublicIDWithMessages retrieves a chat with all messages preloaded in
// chronological order.
func (r *ChatRepository) FindByPublicIDWithMessages(ctx context.Context, publicID string) (*chat.Chat, error) {
	var entity dbschema.Chat
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Preload("Image")
		}).
		Where("public_id = ?", publicID).
		First(&entity).Error
	if err != nil {
		return nil, r.wrapNotFound(ctx, err, fmt.Sprintf("chat not found: %s", publicID))
	}
	return entity.EtoD(), nil
}

// Update saves chat fields.
func (r *ChatRepository) Update(ctx context.Context, c *chat.Chat) error {
	entity := dbschema.NewSchemaChat(c)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update chat",
			err,
			"",
		)
	}
	return nil
}

// Delete removes a chat and its messages.
func (r *ChatRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&dbschema.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dbschema.Chat{}, id).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete chat",
			err,
			"",
		)
	}
	return nil
}

func (r *ChatRepository) applyFilter(query *gorm.DB, filter chat.ChatFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		query = query.Where("public_id = ?", *filter.PublicID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	return query
}

func (r *ChatRepository) wrapNotFound(ctx context.Context, err error, message string) error {
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
		"failed to find chat",
		err,
		"",
	)
}
