package routes

import (
	"github.com/gin-gonic/gin"

	"bongo-server/internal/interfaces/httpserver/handlers"
	v1 "bongo-server/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1             *v1.Routes
	authMiddleware gin.HandlerFunc
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider, authMiddleware gin.HandlerFunc) *Provider {
	return &Provider{
		V1:             v1.NewRoutes(handlerProvider),
		authMiddleware: authMiddleware,
	}
}

// Register registers all routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine, p.authMiddleware)
}
