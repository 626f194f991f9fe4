package handler

import (
	"net/http"
	"strconv"

	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PinHandler struct {
	pinService *service.PinService
}

func NewPinHandler(pinService *service.PinService) *PinHandler {
	return &PinHandler{
		pinService: pinService,
	}
}

type CreatePinRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"required"`
}

type UpdatePinRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/pins
func (h *PinHandler) Create(c *gin.Context) {
	var req CreatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	pin := &models.Pin{
		Username:    actor.Username,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	created, err := h.pinService.CreatePin(actor, pin)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pin": created})
}

// GET /api/pins
func (h *PinHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	pins, err := h.pinService.ListPins(limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pins":  pins,
		"count": len(pins),
	})
}

// GET /api/users/:username/pins
func (h *PinHandler) ListByUser(c *gin.Context) {
	pins, err := h.pinService.ListPinsByUsername(c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pins": pins})
}

// GET /api/pins/:id
func (h *PinHandler) Get(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	pin, err := h.pinService.GetPin(middleware.CurrentIdentity(c), pinID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pin": pin})
}

// PUT /api/pins/:id
func (h *PinHandler) Update(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pin, err := h.pinService.UpdatePin(middleware.CurrentIdentity(c), pinID, req.Title, req.Description, req.ImageURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pin": pin})
}

// DELETE /api/pins/:id
func (h *PinHandler) Delete(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.pinService.DeletePin(middleware.CurrentIdentity(c), pinID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pin deleted"})
}

// POST /api/pins/:id/comments
func (h *PinHandler) CreateComment(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	comment := &models.Comment{
		PinID:    pinID,
		Username: actor.Username,
		Text:     req.Text,
	}

	created, err := h.pinService.CreateComment(actor, comment)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": created})
}

// GET /api/pins/:id/comments
func (h *PinHandler) ListComments(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	comments, err := h.pinService.ListComments(pinID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// PUT /api/comments/:id
func (h *PinHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.pinService.UpdateComment(middleware.CurrentIdentity(c), commentID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DELETE /api/comments/:id
func (h *PinHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.pinService.DeleteComment(middleware.CurrentIdentity(c), commentID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// POST /api/pins/:id/like
func (h *PinHandler) Like(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	like, err := h.pinService.LikePin(middleware.CurrentIdentity(c), pinID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"like": like})
}

// DELETE /api/pins/:id/like
func (h *PinHandler) Unlike(c *gin.Context) {
	pinID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.pinService.UnlikePin(middleware.CurrentIdentity(c), pinID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}

// POST /api/comments/:id/like
func (h *PinHandler) LikeComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	like, err := h.pinService.LikeComment(middleware.CurrentIdentity(c), commentID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"like": like})
}

// DELETE /api/comments/:id/like
func (h *PinHandler) UnlikeComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.pinService.UnlikeComment(middleware.CurrentIdentity(c), commentID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}

// pathUUID parses a :id path param, writing the 400 itself on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	val, err := strconv.Atoi(c.Query(name))
	if err != nil || val < 0 {
		return def
	}
	return val
}
