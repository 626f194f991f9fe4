package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketplaceItem is publicly readable only while IsActive; the seller
// (and admins) can still read inactive listings.
type MarketplaceItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SellerUsername string    `gorm:"type:varchar(50);not null;index" json:"seller_username"`
	Title          string    `gorm:"type:varchar(200);not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	Price          float64   `gorm:"not null" json:"price"`
	ImageURL       string    `gorm:"type:text" json:"image_url,omitempty"`
	IsActive       bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (m *MarketplaceItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
