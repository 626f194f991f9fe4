package repository

import (
	"errors"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.db.First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByRecipient(recipient string, limit int) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.db.
		Where("recipient_username = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Find(&ns).Error
	return ns, err
}

func (r *NotificationRepository) CountUnread(recipient string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_username = ? AND is_read = ?", recipient, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips is_read and nothing else; the rest of the record is
// immutable after creation.
func (r *NotificationRepository) MarkRead(id uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(recipient string) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_username = ? AND is_read = ?", recipient, false).
		Update("is_read", true).Error
}
