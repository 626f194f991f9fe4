package service

import (
	"github.com/fellowshipfinder/backend/internal/authz"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/repository"
	"github.com/fellowshipfinder/backend/internal/validate"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MarketplaceService struct {
	marketRepo *repository.MarketplaceRepository
	engine     *authz.Engine
}

func NewMarketplaceService(marketRepo *repository.MarketplaceRepository, engine *authz.Engine) *MarketplaceService {
	return &MarketplaceService{
		marketRepo: marketRepo,
		engine:     engine,
	}
}

func (s *MarketplaceService) CreateItem(actor identity.Identity, item *models.MarketplaceItem) (*models.MarketplaceItem, error) {
	if err := s.engine.Authorize(actor, authz.KindMarketplaceItem, authz.OpCreate, item).Err(); err != nil {
		return nil, err
	}
	if err := validate.MarketplaceItem(item); err != nil {
		return nil, err
	}

	if err := s.marketRepo.CreateItem(item); err != nil {
		return nil, err
	}

	logger.Log.Info("Marketplace item listed",
		zap.String("item_id", item.ID.String()),
		zap.String("seller", item.SellerUsername),
		zap.Float64("price", item.Price),
	)
	return item, nil
}

// GetItem enforces listing visibility: inactive items are readable only
// by their seller or an admin.
func (s *MarketplaceService) GetItem(actor identity.Identity, itemID uuid.UUID) (*models.MarketplaceItem, error) {
	item, err := s.marketRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindMarketplaceItem, authz.OpRead, item).Err(); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MarketplaceService) ListActive(limit, offset int) ([]models.MarketplaceItem, error) {
	return s.marketRepo.ListActiveItems(limit, offset)
}

func (s *MarketplaceService) ListBySeller(actor identity.Identity, seller string) ([]models.MarketplaceItem, error) {
	items, err := s.marketRepo.ListItemsBySeller(seller)
	if err != nil {
		return nil, err
	}
	if actor.Username == seller || actor.IsAdmin() {
		return items, nil
	}
	active := make([]models.MarketplaceItem, 0, len(items))
	for _, it := range items {
		if it.IsActive {
			active = append(active, it)
		}
	}
	return active, nil
}

func (s *MarketplaceService) UpdateItem(actor identity.Identity, itemID uuid.UUID, title, description, imageURL string, price float64, isActive bool) (*models.MarketplaceItem, error) {
	item, err := s.marketRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if err := s.engine.Authorize(actor, authz.KindMarketplaceItem, authz.OpUpdate, item).Err(); err != nil {
		return nil, err
	}

	item.Title = title
	item.Description = description
	item.ImageURL = imageURL
	item.Price = price
	item.IsActive = isActive
	if err := validate.MarketplaceItem(item); err != nil {
		return nil, err
	}

	if err := s.marketRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MarketplaceService) DeleteItem(actor identity.Identity, itemID uuid.UUID) error {
	item, err := s.marketRepo.GetItemByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	if err := s.engine.Authorize(actor, authz.KindMarketplaceItem, authz.OpDelete, item).Err(); err != nil {
		return err
	}
	return s.marketRepo.DeleteItem(itemID)
}
