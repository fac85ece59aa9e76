package messagerepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/dbschema"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// MessageRepository persists chat messages in PostgreSQL.
type MessageRepository struct {
	db *gorm.DB
}

var _ chat.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository constructs the message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, m *chat.Message) error {
	entity := dbschema.NewSchemaMessage(m)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create message",
			err,
			"",
		)
	}
	m.ID = entity.ID
	return nil
}

// FindByPublicID retrieves a message by its public ID with its image preloaded.
func (r *MessageRepository) FindByPublicID(ctx context.Context, publicID string) (*chat.Message, error) {
	var entity dbschema.Message
	err := r.db.WithContext(ctx).
		Preload("Image").
		Where("public_id = ?", publicID).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("message not found: %s", publicID),
				nil,
				"",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find message",
			err,
			"",
		)
	}
	return entity.EtoD(), nil
}

// ListByChat returns messages of a chat ordered by creation time. A limit of
// zero disables pagination.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID uint, order chat.SortOrder, limit, offset int) ([]*chat.Message, error) {
	direction := "created_at ASC, id ASC"
	if order == chat.OrderDesc {
		direction = "created_at DESC, id DESC"
	}

	query := r.db.WithContext(ctx).
		Preload("Image").
		Where("chat_id = ?", chatID).
		Order(direction)
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var entities []dbschema.Message
	if err := query.Find(&entities).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"",
		)
	}

	messages := make([]*chat.Message, len(entities))
	for i := range entities {
		messages[i] = entities[i].EtoD()
	}
	return messages, nil
}

// CountByChat counts every message in a chat.
func (r *MessageRepository) CountByChat(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dbschema.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count messages",
			err,
			"",
		)
	}
	return count, nil
}

// CountByChatAndRole counts messages of one role in a chat.
func (r *MessageRepository) CountByChatAndRole(ctx context.Context, chatID uint, role chat.MessageRole) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dbschema.Message{}).
		Where("chat_id = ? AND role = ?", chatID, string(role)).
		Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count messages",
			err,
			"",
		)
	}
	return count, nil
}

// DeleteFrom removes every message of a chat created at or after the given
// instant. Used by regeneration to drop a conversation suffix in one shot.
func (r *MessageRepository) DeleteFrom(ctx context.Context, chatID uint, from time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("chat_id = ? AND created_at >= ?", chatID, from).
		Delete(&dbschema.Message{})
	if result.Error != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete messages",
			result.Error,
			"",
		)
	}
	return result.RowsAffected, nil
}

// ListBefore returns the chat's messages created strictly before the given
// instant, oldest first.
func (r *MessageRepository) ListBefore(ctx context.Context, chatID uint, before time.Time) ([]*chat.Message, error) {
	var entities []dbschema.Message
	err := r.db.WithContext(ctx).
		Preload("Image").
		Where("chat_id = ? AND created_at < ?", chatID, before).
		Order("created_at ASC, id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"",
		)
	}

	messages := make([]*chat.Message, len(entities))
	for i := range entities {
		messages[i] = entities[i].EtoD()
	}
	return messages, nil
}

// Delete removes a message by ID.
func (r *MessageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&dbschema.Message{}, id).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete message",
			err,
			"",
		)
	}
	return nil
}
