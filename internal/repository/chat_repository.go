package repository

import (
	"errors"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) WithTx(tx *gorm.DB) *ChatRepository {
	return &ChatRepository{db: tx}
}

func (r *ChatRepository) CreateMessage(msg *models.ChatMessage) error {
	return r.db.Create(msg).Error
}

func (r *ChatRepository) GetMessageByID(id uuid.UUID) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := r.db.First(&msg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *ChatRepository) ListConversation(conversationID string, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// ListConversationIDs returns the distinct conversations a user takes
// part in, for the inbox view.
func (r *ChatRepository) ListConversationIDs(username string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.ChatMessage{}).
		Distinct("conversation_id").
		Where("username = ? OR recipient = ?", username, username).
		Pluck("conversation_id", &ids).Error
	return ids, err
}

func (r *ChatRepository) DeleteMessage(id uuid.UUID) error {
	return r.db.Delete(&models.ChatMessage{}, "id = ?", id).Error
}
