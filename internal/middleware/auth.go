package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"hoaxify/internal/pkg/jwt"
	"hoaxify/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "user_id"
	ContextTokenID = "token_id"
)

// TokenStore is the part of the token repository the middleware needs.
type TokenStore interface {
	Touch(ctx context.Context, tokenID string, now time.Time, ttl time.Duration) (bool, error)
}

// TokenAuth resolves the bearer token, if any, to a user. It never rejects a
// request: routes that need a user add RequireAuth. A valid token has its
// expiry slid forward by ttl on every use; an expired one is ignored.
func TokenAuth(verifier *jwt.Service, tokens TokenStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := verifier.ValidateToken(raw)
		if err != nil {
			c.Next()
			return
		}

		alive, err := tokens.Touch(c.Request.Context(), claims.TokenID(), time.Now().UTC(), ttl)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}
		if alive {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextTokenID, claims.TokenID())
		}
		c.Next()
	}
}

// RequireAuth stops requests that TokenAuth could not attach a user to.
func RequireAuth(code, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetInt64(ContextUserID) == 0 {
			response.Abort(c, http.StatusUnauthorized, code, message)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user, or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return tok, tok != ""
}
