package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bongo-server/internal/domain/meter"
	"bongo-server/internal/interfaces/httpserver/handlers"
	"bongo-server/internal/interfaces/httpserver/responses"
)

// RegisterModelRoutes registers the model catalog endpoint.
func RegisterModelRoutes(router gin.IRoutes, handler *handlers.ModelHandler) {
	router.GET("/models", listModels(handler))
}

func listModels(handler *handlers.ModelHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		descriptors := handler.List(c.Query("category"))

		costs := meter.CostTable{}
		for _, d := range descriptors {
			costs[d.Category] = handler.Cost(d.Category)
		}

		c.JSON(http.StatusOK, responses.NewModelListResponse(descriptors, handler.DefaultKey(), costs))
	}
}
