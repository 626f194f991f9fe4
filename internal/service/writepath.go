package service

import (
	"fmt"

	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/derive"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// applyDerived persists the derived writes computed for a primary write
// inside the same transaction, and returns the notifications among them
// so the caller can publish after commit. A failure here aborts the
// whole transaction; no partial writes are ever observable.
func applyDerived(tx *gorm.DB, derived []derive.DerivedWrite) ([]*models.Notification, error) {
	var notifications []*models.Notification

	for _, d := range derived {
		switch entity := d.Entity.(type) {
		case *models.Notification:
			if err := tx.Create(entity).Error; err != nil {
				return nil, err
			}
			notifications = append(notifications, entity)
		case *models.BlogPost:
			if err := tx.Save(entity).Error; err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported derived write for kind %s", d.Kind)
		}
	}

	return notifications, nil
}

// publishNotifications pushes freshly committed notifications to the
// broker and drops the recipients' cached unread counts. Runs after
// commit; broker failures are logged, never surfaced, since the
// durable write already succeeded.
func publishNotifications(events broker.EventBroker, notifications []*models.Notification) {
	if events == nil {
		return
	}
	for _, n := range notifications {
		if err := events.PublishNotification(n); err != nil {
			logger.Log.Warn("Failed to publish notification",
				zap.String("recipient", n.RecipientUsername),
				zap.Error(err),
			)
		}
		if err := events.InvalidateUnreadCount(n.RecipientUsername); err != nil {
			logger.Log.Warn("Failed to invalidate unread count",
				zap.String("recipient", n.RecipientUsername),
				zap.Error(err),
			)
		}
	}
}
