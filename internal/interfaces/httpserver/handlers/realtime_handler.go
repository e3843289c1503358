package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"bongo-server/internal/infrastructure/auth"
	"bongo-server/internal/infrastructure/realtime"
	"bongo-server/internal/utils/idgen"
)

// RealtimeHandler upgrades authenticated requests to balance-sync sessions.
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewRealtimeHandler creates a RealtimeHandler.
func NewRealtimeHandler(hub *realtime.Hub, log zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the app origin; token auth
			// already gates the upgrade.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Handle upgrades the connection and subscribes it to the caller's events.
func (h *RealtimeHandler) Handle(c *gin.Context) {
	acc, ok := auth.AccountFromContext(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Debug().Err(err).Msg("[RealtimeHandler] Upgrade failed")
		return
	}

	sessionID, err := idgen.GenerateSecureID("sess", 16)
	if err != nil {
		_ = conn.Close()
		return
	}

	h.hub.Subscribe(sessionID, acc.Subject, conn)
}
