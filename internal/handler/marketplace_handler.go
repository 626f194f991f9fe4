package handler

import (
	"net/http"

	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type MarketplaceHandler struct {
	marketService *service.MarketplaceService
}

func NewMarketplaceHandler(marketService *service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketService: marketService,
	}
}

type MarketplaceItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// POST /api/marketplace
func (h *MarketplaceHandler) Create(c *gin.Context) {
	var req MarketplaceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	item := &models.MarketplaceItem{
		SellerUsername: actor.Username,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		ImageURL:       req.ImageURL,
		IsActive:       true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	created, err := h.marketService.CreateItem(actor, item)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": created})
}

// GET /api/marketplace
func (h *MarketplaceHandler) List(c *gin.Context) {
	items, err := h.marketService.ListActive(queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GET /api/users/:username/marketplace
func (h *MarketplaceHandler) ListBySeller(c *gin.Context) {
	items, err := h.marketService.ListBySeller(middleware.CurrentIdentity(c), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /api/marketplace/:id
func (h *MarketplaceHandler) Get(c *gin.Context) {
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	item, err := h.marketService.GetItem(middleware.CurrentIdentity(c), itemID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// PUT /api/marketplace/:id
func (h *MarketplaceHandler) Update(c *gin.Context) {
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req MarketplaceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	item, err := h.marketService.UpdateItem(middleware.CurrentIdentity(c), itemID, req.Title, req.Description, req.ImageURL, req.Price, isActive)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DELETE /api/marketplace/:id
func (h *MarketplaceHandler) Delete(c *gin.Context) {
	itemID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.marketService.DeleteItem(middleware.CurrentIdentity(c), itemID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}
