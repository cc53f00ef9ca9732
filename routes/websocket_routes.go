package routes

import (
	"cleanwave/internal/middleware"
	"cleanwave/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupWebSocketRoutes exposes the live notification socket. New
// subscribers receive the last SOS message immediately after the
// welcome frame, so a client that connects mid-incident still sees the
// active alert.
func SetupWebSocketRoutes(r *gin.RouterGroup, wsHandler *websocket.Handler, jwtSecret string) {
	r.GET("/ws", middleware.AuthRequired(jwtSecret), wsHandler.HandleWebSocket)
}
