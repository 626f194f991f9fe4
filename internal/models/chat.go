package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is a direct message. ConversationID is a free-form string,
// not a foreign key: conversations span two usernames rather than one
// entity, so the id is the two participant names joined canonically.
type ChatMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"type:varchar(120);not null;index" json:"conversation_id"`
	Username       string    `gorm:"type:varchar(50);not null;index" json:"username"`
	Recipient      string    `gorm:"type:varchar(50);not null;index" json:"recipient"`
	Text           string    `gorm:"type:varchar(1000);not null" json:"text"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ConversationID builds the canonical conversation id for two users:
// the usernames sorted and joined with "|", so both sides derive the
// same id regardless of who sends first.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}
