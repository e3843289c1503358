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

// RegisterTokenRoutes registers the balance check and consume endpoints.
func RegisterTokenRoutes(router gin.IRoutes, handler *handlers.TokenHandler) {
	router.POST("/tokens/check", checkTokens(handler))
	router.POST("/tokens/consume", consumeTokens(handler))
}

func checkTokens(handler *handlers.TokenHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := auth.AccountFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}

		var req requests.TokenCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}

		res, err := handler.Check(c.Request.Context(), acc.Subject, req.ModelKey, req.Category)
		if err != nil {
			responses.HandleError(c, err, "token check failed")
			return
		}

		c.JSON(http.StatusOK, responses.NewTokenCheckResponse(res))
	}
}

func consumeTokens(handler *handlers.TokenHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := auth.AccountFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}

		var req requests.TokenConsumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}

		res, err := handler.Consume(c.Request.Context(), acc.Subject, req.ModelKey, req.Category)
		if err != nil {
			if platformerrors.IsErrorType(err, platformerrors.ErrorTypeInsufficientBalance) {
				c.JSON(http.StatusPaymentRequired, responses.TokenConsumeResponse{
					Success: false,
					Message: "insufficient tokens",
				})
				return
			}
			responses.HandleError(c, err, "token consume failed")
			return
		}

		c.JSON(http.StatusOK, responses.NewTokenConsumeResponse(res))
	}
}
