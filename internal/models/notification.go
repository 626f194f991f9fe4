package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationMessage NotificationType = "message"
)

type EntityType string

const (
	EntityPin             EntityType = "pin"
	EntityComment         EntityType = "comment"
	EntityBlogPost        EntityType = "blog_post"
	EntityBlogPostComment EntityType = "blog_post_comment"
	EntityMarketplaceItem EntityType = "marketplace_item"
	EntityChatMessage     EntityType = "chat_message"
)

// Notification is created as a side effect of a like/comment/message
// write when the actor differs from the target's owner. Only the
// recipient (or an admin) may read it, and the only mutable field is
// IsRead. Never auto-deleted.
type Notification struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientUsername string           `gorm:"type:varchar(50);not null;index" json:"recipient_username"`
	SenderUsername    string           `gorm:"type:varchar(50);not null" json:"sender_username"`
	Type              NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	EntityType        EntityType       `gorm:"type:varchar(30);not null" json:"entity_type"`
	EntityID          uuid.UUID        `gorm:"type:uuid;not null" json:"entity_id"`
	Message           string           `gorm:"type:varchar(255);not null" json:"message"`
	IsRead            bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
