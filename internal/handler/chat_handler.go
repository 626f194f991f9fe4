package handler

import (
	"net/http"

	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/chat/:username
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.CurrentIdentity(c)
	msg, err := h.chatService.SendMessage(actor, c.Param("username"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GET /api/chat/:username
func (h *ChatHandler) GetConversation(c *gin.Context) {
	actor := middleware.CurrentIdentity(c)
	limit := queryInt(c, "limit", 50)

	msgs, err := h.chatService.GetConversation(actor, c.Param("username"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// GET /api/chat
func (h *ChatHandler) ListConversations(c *gin.Context) {
	actor := middleware.CurrentIdentity(c)

	conversations, err := h.chatService.ListConversations(actor)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// DELETE /api/chat/messages/:id
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentIdentity(c)
	if err := h.chatService.DeleteMessage(actor, messageID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
