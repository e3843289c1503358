// Package auth validates session tokens and attaches accounts to requests.
package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"bongo-server/internal/domain/account"
	"bongo-server/internal/utils/platformerrors"
)

const accountContextKey = "account"

// Validator verifies HS256 session tokens issued by the identity frontend.
type Validator struct {
	secret []byte
}

// NewValidator creates a Validator for the shared session secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Validate parses and verifies a session token and returns its identity.
func (v *Validator) Validate(tokenString string) (*account.Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("session token has no subject")
	}

	return &account.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// TokenFromRequest extracts the session token from the Authorization header
// or, for WebSocket clients that cannot set headers, the token query param.
func TokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// Middleware authenticates the request and ensures an account exists for the
// identity, storing it in the gin context.
func Middleware(validator *Validator, accounts *account.Service, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			platformerrors.WriteUnauthorized(c, "missing session token")
			c.Abort()
			return
		}

		identity, err := validator.Validate(tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("[Auth] Session token rejected")
			platformerrors.WriteUnauthorized(c, "invalid session token")
			c.Abort()
			return
		}

		acc, err := accounts.EnsureAccount(c.Request.Context(), *identity)
		if err != nil {
			platformerrors.WriteError(c, err, log)
			c.Abort()
			return
		}

		c.Set(accountContextKey, acc)
		c.Next()
	}
}

// AccountFromContext returns the authenticated account set by Middleware.
func AccountFromContext(c *gin.Context) (*account.Account, bool) {
	val, exists := c.Get(accountContextKey)
	if !exists {
		return nil, false
	}
	acc, ok := val.(*account.Account)
	return acc, ok
}
