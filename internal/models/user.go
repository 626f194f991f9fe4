package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Role         Role           `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	AvatarURL    string         `gorm:"type:text" json:"avatar_url,omitempty"`
	Bio          string         `gorm:"type:varchar(500)" json:"bio,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// IDs are generated in Go rather than by the database so the same models
// run on PostgreSQL and on in-memory SQLite in tests.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ForbiddenWord is matched case-insensitively as a substring against
// candidate usernames at registration time. Admin-managed.
type ForbiddenWord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Word      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"word"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *ForbiddenWord) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
