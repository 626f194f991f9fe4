package repository

import (
	"errors"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MarketplaceRepository struct {
	db *gorm.DB
}

func NewMarketplaceRepository(db *gorm.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

func (r *MarketplaceRepository) WithTx(tx *gorm.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: tx}
}

func (r *MarketplaceRepository) CreateItem(item *models.MarketplaceItem) error {
	return r.db.Create(item).Error
}

func (r *MarketplaceRepository) GetItemByID(id uuid.UUID) (*models.MarketplaceItem, error) {
	var item models.MarketplaceItem
	err := r.db.First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListActiveItems is the public storefront view.
func (r *MarketplaceRepository) ListActiveItems(limit, offset int) ([]models.MarketplaceItem, error) {
	var items []models.MarketplaceItem
	err := r.db.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// ListItemsBySeller includes inactive listings for the seller's own view.
func (r *MarketplaceRepository) ListItemsBySeller(seller string) ([]models.MarketplaceItem, error) {
	var items []models.MarketplaceItem
	err := r.db.
		Where("seller_username = ?", seller).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *MarketplaceRepository) UpdateItem(item *models.MarketplaceItem) error {
	return r.db.Save(item).Error
}

func (r *MarketplaceRepository) DeleteItem(id uuid.UUID) error {
	return r.db.Delete(&models.MarketplaceItem{}, "id = ?", id).Error
}
