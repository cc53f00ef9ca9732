package websocket

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler starts a hub and builds the upgrader around the same
// origin allowlist the CORS layer uses. A "*" entry admits any origin.
func NewHandler(allowedOrigins []string) *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"), allowedOrigins)
			},
		},
	}
}

// originAllowed admits requests without an Origin header (non-browser
// clients never send one) and browser requests from listed origins.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, candidate := range allowed {
		if candidate == "*" || strings.EqualFold(candidate, origin) {
			return true
		}
	}
	return false
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

// HandleWebSocket upgrades an authenticated request into a hub
// subscription for the lifetime of the connection.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	email, exists := c.Get("email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	emailStr, ok := email.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid identity"})
		return
	}

	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, emailStr, roleStr)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastSOSAlert pushes a new alert to every connected client.
func (h *Handler) BroadcastSOSAlert(data map[string]interface{}) {
	h.hub.Broadcast(Message{
		Type:      MessageTypeSOSAlert,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}

// BroadcastSOSResolved tells every client the active alert is done;
// consumers distinguish it from creation purely by the message type
// and the resolved fields in the payload.
func (h *Handler) BroadcastSOSResolved(data map[string]interface{}) {
	h.hub.Broadcast(Message{
		Type:      MessageTypeSOSResolved,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}

func (h *Handler) BroadcastPostCreated(data map[string]interface{}) {
	h.hub.Broadcast(Message{
		Type:      MessageTypePostCreated,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}

func (h *Handler) BroadcastChallengeUpdate(data map[string]interface{}) {
	h.hub.Broadcast(Message{
		Type:      MessageTypeChallenge,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}

func (h *Handler) SendUserNotification(email, notificationType string, data map[string]interface{}) {
	h.hub.SendToUser(email, Message{
		Type:      notificationType,
		RoomID:    "user_" + email,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	})
}
