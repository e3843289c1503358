package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bongo-server/internal/infrastructure/auth"
	"bongo-server/internal/interfaces/httpserver/handlers"
	"bongo-server/internal/interfaces/httpserver/requests"
	"bongo-server/internal/interfaces/httpserver/responses"
	"bongo-server/internal/utils/platformerrors"
)

// RegisterGenerationRoutes registers the generation endpoint.
func RegisterGenerationRoutes(router gin.IRoutes, handler *handlers.GenerationHandler) {
	router.POST("/generations", createGeneration(handler))
}

func createGeneration(handler *handlers.GenerationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := auth.AccountFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}

		var req requests.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}
		if req.Message == "" && req.ImageData == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "message or imageData is required")
			return
		}

		out, err := handler.Generate(c.Request.Context(), acc.Subject, req)
		if err != nil {
			responses.HandleError(c, err, "generation failed")
			return
		}

		c.JSON(http.StatusOK, responses.NewGenerateResponse(out))
	}
}
