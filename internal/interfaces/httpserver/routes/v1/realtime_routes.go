package v1

import (
	"github.com/gin-gonic/gin"

	"bongo-server/internal/interfaces/httpserver/handlers"
)

// RegisterRealtimeRoutes registers the balance-sync WebSocket endpoint.
// WebSocket clients authenticate with a token query parameter since browsers
// cannot set headers on upgrade requests.
func RegisterRealtimeRoutes(router gin.IRoutes, handler *handlers.RealtimeHandler) {
	router.GET("/realtime", handler.Handle)
}
