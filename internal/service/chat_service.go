package service

import (
	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/derive"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/validate"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChatService struct {
	db       *gorm.DB
	chatRepo *repository.ChatRepository
	engine   *authz.Engine
	events   broker.EventBroker
}

func NewChatService(db *gorm.DB, chatRepo *repository.ChatRepository, engine *authz.Engine, events broker.EventBroker) *ChatService {
	return &ChatService{
		db:       db,
		chatRepo: chatRepo,
		engine:   engine,
		events:   events,
	}
}

// SendMessage persists a DM and its recipient notification in one
// transaction, then publishes the message on the conversation channel.
func (s *ChatService) SendMessage(actor identity.Identity, recipient, text string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ConversationID: models.ConversationID(actor.Username, recipient),
		Username:       actor.Username,
		Recipient:      recipient,
		Text:           text,
	}

	if err := s.engine.Authorize(actor, authz.KindChatMessage, authz.OpCreate, msg).Err(); err != nil {
		return nil, err
	}
	if err := validate.ChatMessage(msg); err != nil {
		return nil, err
	}

	var notifications []*models.Notification
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.chatRepo.WithTx(tx).CreateMessage(msg); err != nil {
			return err
		}
		derived := derive.OnWrite(derive.Write{
			Kind:        authz.KindChatMessage,
			After:       msg,
			Actor:       actor,
			TargetOwner: recipient,
		})
		var err error
		notifications, err = applyDerived(tx, derived)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishChatMessage(msg); err != nil {
			logger.Log.Warn("Failed to publish chat message",
				zap.String("conversation_id", msg.ConversationID),
				zap.Error(err),
			)
		}
	}
	publishNotifications(s.events, notifications)

	return msg, nil
}

// GetConversation returns the recent messages of a conversation the
// actor takes part in.
func (s *ChatService) GetConversation(actor identity.Identity, other string, limit int) ([]models.ChatMessage, error) {
	if !actor.IsResolved() {
		return nil, authz.Deny("conversations require a resolved identity").Err()
	}

	conversationID := models.ConversationID(actor.Username, other)
	msgs, err := s.chatRepo.ListConversation(conversationID, limit)
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if err := s.engine.Authorize(actor, authz.KindChatMessage, authz.OpRead, &msgs[i]).Err(); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

func (s *ChatService) ListConversations(actor identity.Identity) ([]string, error) {
	if !actor.IsResolved() {
		return nil, authz.Deny("conversations require a resolved identity").Err()
	}
	return s.chatRepo.ListConversationIDs(actor.Username)
}

// DeleteMessage removes one DM; sender or admin only. Deleting an
// already-deleted message is a no-op.
func (s *ChatService) DeleteMessage(actor identity.Identity, messageID uuid.UUID) error {
	msg, err := s.chatRepo.GetMessageByID(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindChatMessage, authz.OpDelete, msg).Err(); err != nil {
		return err
	}
	return s.chatRepo.DeleteMessage(messageID)
}
