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

// RegisterAccountRoutes registers account profile and admin endpoints.
func RegisterAccountRoutes(router gin.IRoutes, handler *handlers.AccountHandler) {
	router.GET("/accounts/me", getOwnAccount(handler))
	router.POST("/admin/tokens/grant", grantTokens(handler))
}

func getOwnAccount(handler *handlers.AccountHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := auth.AccountFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}

		c.JSON(http.StatusOK, responses.NewAccountResponse(acc))
	}
}

func grantTokens(handler *handlers.AccountHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := auth.AccountFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}
		if !handler.IsAdmin(acc.Subject) {
			responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "admin access required")
			return
		}

		var req requests.GrantTokensRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "subject and amount are required")
			return
		}

		res, err := handler.Grant(c.Request.Context(), req.Subject, req.Amount)
		if err != nil {
			responses.HandleError(c, err, "token grant failed")
			return
		}

		c.JSON(http.StatusOK, responses.NewTokenConsumeResponse(res))
	}
}
