package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bongo-server/internal/utils/platformerrors"
)

// HandleError handles errors and writes appropriate HTTP responses. Plain
// errors are wrapped with message as handler context; platform errors keep
// their own type and message.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if platformErr := platformerrors.GetPlatformError(err); platformErr != nil {
		platformerrors.WriteHTTPError(c, platformErr, logger)
		return
	}
	platformerrors.WriteError(c, platformerrors.AsError(platformerrors.LayerHandler, err, message), logger)
}

// HandleNewError creates and writes a new typed error response.
// Use this for route-level errors like validation or authorization failures.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	status := platformerrors.ErrorTypeToHTTPStatus(errorType)
	c.JSON(status, platformerrors.HTTPErrorResponse{
		Error: &platformerrors.HTTPErrorDetail{
			Message: message,
			Type:    errorTypeToString(errorType),
		},
	})
}

// errorTypeToString converts an ErrorType to a snake_case string for API responses.
func errorTypeToString(t platformerrors.ErrorType) string {
	switch t {
	case platformerrors.ErrorTypeNotFound:
		return "not_found_error"
	case platformerrors.ErrorTypeValidation:
		return "validation_error"
	case platformerrors.ErrorTypeConflict:
		return "conflict_error"
	case platformerrors.ErrorTypeUnauthorized:
		return "unauthorized_error"
	case platformerrors.ErrorTypeForbidden:
		return "forbidden_error"
	case platformerrors.ErrorTypeTimeout:
		return "timeout_error"
	case platformerrors.ErrorTypeExternal:
		return "external_error"
	case platformerrors.ErrorTypeInsufficientBalance:
		return "insufficient_balance_error"
	case platformerrors.ErrorTypeInternal:
		fallthrough
	default:
		return "internal_error"
	}
}
