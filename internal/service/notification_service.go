package service

import (
	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService struct {
	notifRepo *repository.NotificationRepository
	engine    *authz.Engine
	events    broker.EventBroker
}

func NewNotificationService(notifRepo *repository.NotificationRepository, engine *authz.Engine, events broker.EventBroker) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		engine:    engine,
		events:    events,
	}
}

// List returns the actor's own notifications. An admin may pass any
// recipient; everyone else only their own username.
func (s *NotificationService) List(actor identity.Identity, recipient string, limit int) ([]models.Notification, error) {
	if recipient == "" {
		recipient = actor.Username
	}
	if recipient != actor.Username && !actor.IsAdmin() {
		return nil, authz.Deny("notifications are readable only by their recipient").Err()
	}
	if err := s.engine.Authorize(actor, authz.KindNotification, authz.OpRead, nil).Err(); err != nil {
		return nil, err
	}
	return s.notifRepo.ListByRecipient(recipient, limit)
}

// UnreadCount serves the badge counter, via the redis cache when warm.
func (s *NotificationService) UnreadCount(actor identity.Identity) (int64, error) {
	if !actor.IsResolved() {
		return 0, authz.Deny("notifications require a resolved identity").Err()
	}

	if s.events != nil {
		if cached, err := s.events.GetUnreadCount(actor.Username); err == nil && cached >= 0 {
			return cached, nil
		}
	}

	count, err := s.notifRepo.CountUnread(actor.Username)
	if err != nil {
		return 0, err
	}

	if s.events != nil {
		if err := s.events.SetUnreadCount(actor.Username, count); err != nil {
			logger.Log.Warn("Failed to cache unread count",
				zap.String("username", actor.Username),
				zap.Error(err),
			)
		}
	}
	return count, nil
}

// MarkRead flips is_read on one notification. Only the recipient (or
// an admin) may do it, and no other field ever changes.
func (s *NotificationService) MarkRead(actor identity.Identity, notificationID uuid.UUID) error {
	n, err := s.notifRepo.GetByID(notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindNotification, authz.OpUpdate, n).Err(); err != nil {
		return err
	}

	if err := s.notifRepo.MarkRead(notificationID); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.InvalidateUnreadCount(n.RecipientUsername)
	}
	return nil
}

// MarkAllRead flips is_read on every unread notification of the actor.
func (s *NotificationService) MarkAllRead(actor identity.Identity) error {
	if !actor.IsResolved() {
		return authz.Deny("notifications require a resolved identity").Err()
	}
	if err := s.notifRepo.MarkAllRead(actor.Username); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.InvalidateUnreadCount(actor.Username)
	}
	return nil
}
