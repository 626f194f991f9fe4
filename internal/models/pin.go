package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pin is an image post on a user's board. Username is the owner and is
// immutable after creation; guests own pins by self-asserted username.
type Pin struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(50);not null;index" json:"username"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string    `gorm:"type:text;not null" json:"image_url"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	Comments []Comment `gorm:"foreignKey:PinID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Likes    []Like    `gorm:"foreignKey:PinID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
}

func (p *Pin) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PinID     uuid.UUID `gorm:"type:uuid;not null;index" json:"pin_id"`
	Username  string    `gorm:"type:varchar(50);not null;index" json:"username"`
	Text      string    `gorm:"type:varchar(100);not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Likes []CommentLike `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PinID     uuid.UUID `gorm:"type:uuid;not null;index" json:"pin_id"`
	Username  string    `gorm:"type:varchar(50);not null;index" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type CommentLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;index" json:"comment_id"`
	Username  string    `gorm:"type:varchar(50);not null;index" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
