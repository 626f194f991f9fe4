package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost content is free-form HTML/markup. Excerpt is derived from
// Content on every create/update (first 300 chars of the stripped text)
// and must never be written directly by callers.
type BlogPost struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorUsername string    `gorm:"type:varchar(50);not null;index" json:"author_username"`
	Title          string    `gorm:"type:varchar(200);not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Excerpt        string    `gorm:"type:varchar(310)" json:"excerpt"`
	CoverImageURL  string    `gorm:"type:text" json:"cover_image_url,omitempty"`
	IsPublished    bool      `gorm:"default:false;index" json:"is_published"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Comments []BlogPostComment `gorm:"foreignKey:BlogPostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Likes    []BlogPostLike    `gorm:"foreignKey:BlogPostID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type BlogPostComment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlogPostID uuid.UUID `gorm:"type:uuid;not null;index" json:"blog_post_id"`
	Username   string    `gorm:"type:varchar(50);not null;index" json:"username"`
	Text       string    `gorm:"type:varchar(1000);not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`

	Likes []BlogPostCommentLike `gorm:"foreignKey:BlogPostCommentID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
}

func (c *BlogPostComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type BlogPostLike struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlogPostID uuid.UUID `gorm:"type:uuid;not null;index" json:"blog_post_id"`
	Username   string    `gorm:"type:varchar(50);not null;index" json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l *BlogPostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type BlogPostCommentLike struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlogPostCommentID uuid.UUID `gorm:"type:uuid;not null;index" json:"blog_post_comment_id"`
	Username          string    `gorm:"type:varchar(50);not null;index" json:"username"`
	CreatedAt         time.Time `json:"created_at"`
}

func (l *BlogPostCommentLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
