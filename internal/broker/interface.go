package broker

import "github.com/fellowshipfinder/backend/internal/models"

// EventBroker fans freshly committed chat messages and notifications
// out to connected clients, and caches per-user unread counts so the
// badge endpoint does not hit the database on every poll.
type EventBroker interface {
	PublishChatMessage(msg *models.ChatMessage) error
	SubscribeConversation(conversationID string) (<-chan *models.ChatMessage, func(), error)

	PublishNotification(n *models.Notification) error

	// Unread-count cache. A negative return from GetUnreadCount means
	// "not cached"; callers fall back to the database.
	SetUnreadCount(username string, count int64) error
	GetUnreadCount(username string) (int64, error)
	InvalidateUnreadCount(username string) error

	Close() error
}
