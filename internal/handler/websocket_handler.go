package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/fellowshipfinder/backend/internal/broker"
	"github.com/fellowshipfinder/backend/internal/identity"
	"github.com/fellowshipfinder/backend/internal/middleware"
	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/fellowshipfinder/backend/internal/service"
	"github.com/fellowshipfinder/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second // Time allowed to write a message to the peer
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // 54 seconds
	maxMessageSize = 64 * 1024           // 64 KB
	historySize    = 50
)

type WSMessageType string

const (
	WSMessageTypeSend WSMessageType = "send_message"
)

type WSRequest struct {
	Type   WSMessageType `json:"type"`
	TempID string        `json:"temp_id,omitempty"`
	Text   string        `json:"text,omitempty"`
}

type WSResponse struct {
	Type      string `json:"type"` // "message", "ack", "error"
	MessageID string `json:"message_id,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`

	// For ACK
	TempID string `json:"temp_id,omitempty"`
	Status string `json:"status,omitempty"`
}

type WebSocketHandler struct {
	chatService *service.ChatService
	events      broker.EventBroker
	clients     map[*websocket.Conn]*wsClient
	mu          sync.RWMutex
}

type wsClient struct {
	conn        *websocket.Conn
	identity    identity.Identity
	other       string
	connectedAt time.Time

	writeMu sync.Mutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

func NewWebSocketHandler(chatService *service.ChatService, events broker.EventBroker) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		events:      events,
		clients:     make(map[*websocket.Conn]*wsClient),
	}
}

// GET /api/chat/:username/ws
//
// Streams one conversation: messages published on its channel are
// pushed to the peer, and send_message frames go through the same
// write path as the REST endpoint.
func (h *WebSocketHandler) HandleConversation(c *gin.Context) {
	actor := middleware.CurrentIdentity(c)
	if !actor.IsResolved() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identity required"})
		return
	}
	other := c.Param("username")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := &wsClient{
		conn:        conn,
		identity:    actor,
		other:       other,
		connectedAt: time.Now(),
	}

	h.mu.Lock()
	h.clients[conn] = client
	total := len(h.clients)
	h.mu.Unlock()

	logger.Log.Info("Chat client connected",
		zap.String("username", actor.Username),
		zap.String("conversation_with", other),
		zap.Int("total_clients", total),
	)

	defer h.removeClient(conn)

	conversationID := models.ConversationID(actor.Username, other)
	incoming, cancel, err := h.events.SubscribeConversation(conversationID)
	if err != nil {
		logger.Log.Error("Failed to subscribe to conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		h.sendError(client, "subscription failed")
		return
	}
	defer cancel()

	go h.sendHistory(client)

	done := make(chan struct{})
	defer close(done)
	go h.forwardMessages(client, incoming, done)
	go h.pingClient(client, done)

	h.readLoop(client)
}

// readLoop consumes frames from the peer until the socket closes.
func (h *WebSocketHandler) readLoop(client *wsClient) {
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req WSRequest
		if err := client.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket read error",
					zap.String("username", client.identity.Username),
					zap.Error(err),
				)
			}
			return
		}

		switch req.Type {
		case WSMessageTypeSend:
			h.handleSendMessage(client, req)
		default:
			h.sendError(client, "unknown message type")
		}
	}
}

func (h *WebSocketHandler) handleSendMessage(client *wsClient, req WSRequest) {
	msg, err := h.chatService.SendMessage(client.identity, client.other, req.Text)
	if err != nil {
		h.sendAck(client, req.TempID, "", "error", err.Error())
		return
	}
	h.sendAck(client, req.TempID, msg.ID.String(), "success", "")
}

// forwardMessages pushes broker messages to the peer. The sender's own
// messages come back through the channel too, which doubles as the
// delivery confirmation on the sending side.
func (h *WebSocketHandler) forwardMessages(client *wsClient, incoming <-chan *models.ChatMessage, done <-chan struct{}) {
	for {
		select {
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			h.writeJSON(client, WSResponse{
				Type:      "message",
				MessageID: msg.ID.String(),
				Sender:    msg.Username,
				Recipient: msg.Recipient,
				Text:      msg.Text,
				Timestamp: msg.CreatedAt.Format(time.RFC3339),
			})
		case <-done:
			return
		}
	}
}

// sendHistory replays the recent conversation to a newly connected client.
func (h *WebSocketHandler) sendHistory(client *wsClient) {
	msgs, err := h.chatService.GetConversation(client.identity, client.other, historySize)
	if err != nil {
		logger.Log.Warn("Failed to load conversation history",
			zap.String("username", client.identity.Username),
			zap.Error(err),
		)
		return
	}

	for i := range msgs {
		h.writeJSON(client, WSResponse{
			Type:      "message",
			MessageID: msgs[i].ID.String(),
			Sender:    msgs[i].Username,
			Recipient: msgs[i].Recipient,
			Text:      msgs[i].Text,
			Timestamp: msgs[i].CreatedAt.Format(time.RFC3339),
		})
	}
}

func (h *WebSocketHandler) pingClient(client *wsClient, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			client.writeMu.Lock()
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := client.conn.WriteMessage(websocket.PingMessage, nil)
			client.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *WebSocketHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.clients[conn]
	if exists {
		delete(h.clients, conn)
		conn.Close()

		logger.Log.Info("Chat client disconnected",
			zap.String("username", client.identity.Username),
			zap.Duration("session_duration", time.Since(client.connectedAt).Round(time.Second)),
			zap.Int("remaining_clients", len(h.clients)),
		)
	}
}

func (h *WebSocketHandler) sendError(client *wsClient, errorMsg string) {
	h.writeJSON(client, WSResponse{
		Type:  "error",
		Error: errorMsg,
	})
}

func (h *WebSocketHandler) sendAck(client *wsClient, tempID, messageID, status, errorMsg string) {
	ack := WSResponse{
		Type:      "ack",
		TempID:    tempID,
		MessageID: messageID,
		Status:    status,
	}
	if status == "error" {
		ack.Error = errorMsg
	}
	h.writeJSON(client, ack)
}

func (h *WebSocketHandler) writeJSON(client *wsClient, msg WSResponse) {
	client.writeMu.Lock()
	defer client.writeMu.Unlock()

	client.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := client.conn.WriteJSON(msg); err != nil {
		logger.Log.Warn("Failed to write to websocket",
			zap.String("username", client.identity.Username),
			zap.Error(err),
		)
	}
}
