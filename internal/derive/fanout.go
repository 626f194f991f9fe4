package derive

import (
	"fmt"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
)

// Event describes a like/comment/message action against a target entity.
type Event struct {
	Action        models.NotificationType
	EntityType    models.EntityType
	EntityID      uuid.UUID
	ActorUsername string
	OwnerUsername string
}

// FanOut derives the notification for an event, or nil when the actor
// is the target's owner (no self-notifications). Exactly one
// notification per event; deduplication of concurrently racing inserts
// is left to the storage layer and duplicates there are cosmetic.
func FanOut(ev Event) *models.Notification {
	if ev.ActorUsername == ev.OwnerUsername {
		return nil
	}
	return &models.Notification{
		RecipientUsername: ev.OwnerUsername,
		SenderUsername:    ev.ActorUsername,
		Type:              ev.Action,
		EntityType:        ev.EntityType,
		EntityID:          ev.EntityID,
		Message:           notificationMessage(ev),
	}
}

func notificationMessage(ev Event) string {
	switch ev.Action {
	case models.NotificationLike:
		return fmt.Sprintf("%s liked your %s", ev.ActorUsername, entityLabel(ev.EntityType))
	case models.NotificationComment:
		return fmt.Sprintf("%s commented on your %s", ev.ActorUsername, entityLabel(ev.EntityType))
	case models.NotificationMessage:
		return fmt.Sprintf("%s sent you a message", ev.ActorUsername)
	default:
		return fmt.Sprintf("%s interacted with your %s", ev.ActorUsername, entityLabel(ev.EntityType))
	}
}

func entityLabel(t models.EntityType) string {
	switch t {
	case models.EntityPin:
		return "pin"
	case models.EntityBlogPost:
		return "blog post"
	case models.EntityComment, models.EntityBlogPostComment:
		return "comment"
	case models.EntityMarketplaceItem:
		return "listing"
	case models.EntityChatMessage:
		return "message"
	default:
		return "post"
	}
}
