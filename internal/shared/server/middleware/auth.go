package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/shared/auth"
	"bewerbung-gateway/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	rawTokenKey  = "rawToken"
)

// Auth validates the bearer token issued by the upstream service and stores
// the identity plus the raw token in context. Login and register stay public;
// everything else requires a valid token.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/register") || strings.HasSuffix(path, "/health") {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Anmeldung erforderlich", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Anmeldung erforderlich", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				respond.Error(c, http.StatusUnauthorized, "token_expired", "Token abgelaufen", nil)
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Ungültiger Token", nil)
			return
		}

		c.Set(userIDKey, claims.UserID)
		if claims.Email != "" {
			c.Set(userEmailKey, claims.Email)
		}
		c.Set(rawTokenKey, token)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// TokenFromContext fetches the raw bearer token set by the auth middleware.
// The gateway forwards it verbatim on every upstream call.
func TokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(rawTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}
