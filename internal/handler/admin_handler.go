package handler

import (
	"net/http"

	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	accountService *service.AccountService
}

func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
	}
}

type BanUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type ForbiddenWordRequest struct {
	Word string `json:"word" binding:"required"`
}

// GET /api/admin/users
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	logger.Log.Info("Admin fetching all users",
		zap.String("admin", middleware.CurrentIdentity(c).Username),
	)

	users, err := h.accountService.GetAllUsers()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// POST /api/admin/ban
func (h *AdminHandler) BanUser(c *gin.Context) {
	var req BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	admin := middleware.CurrentIdentity(c)
	if err := h.accountService.BanUser(req.UserID, admin.Username, req.Reason); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User banned"})
}

// GET /api/admin/forbidden-words
func (h *AdminHandler) ListForbiddenWords(c *gin.Context) {
	words, err := h.accountService.ListForbiddenWords()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"words": words})
}

// POST /api/admin/forbidden-words
func (h *AdminHandler) AddForbiddenWord(c *gin.Context) {
	var req ForbiddenWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	word, err := h.accountService.AddForbiddenWord(req.Word)
	if err != nil {
		writeError(c, err)
		return
	}

	logger.Log.Info("Forbidden word added",
		zap.String("word", word.Word),
		zap.String("admin", middleware.CurrentIdentity(c).Username),
	)

	c.JSON(http.StatusCreated, gin.H{"word": word})
}

// DELETE /api/admin/forbidden-words/:id
func (h *AdminHandler) RemoveForbiddenWord(c *gin.Context) {
	wordID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.RemoveForbiddenWord(wordID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Forbidden word removed"})
}
