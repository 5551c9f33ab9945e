package auth

import (
	"net/http"
	"strings"

	"squadup/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKey is the gin context key holding the authenticated user id.
const ContextKey = "userID"

// Middleware rejects requests without a valid bearer token and stores the user id in both
// the gin context and the request context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authenticate(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": "UNAUTHENTICATED"})
			return
		}
		setUser(c, userID)
		c.Next()
	}
}

// OptionalMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := authenticate(c, secret); ok {
			setUser(c, userID)
		}
		c.Next()
	}
}

// authenticate reads a Bearer token from the Authorization header. Browsers cannot set
// headers on EventSource or WebSocket requests, so the access_token query parameter is
// accepted as well.
func authenticate(c *gin.Context, secret string) (uuid.UUID, bool) {
	tokenString := c.Query("access_token")
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return uuid.Nil, false
		}
		tokenString = parts[1]
	}
	if tokenString == "" {
		return uuid.Nil, false
	}

	userID, err := jwt.ParseToken(tokenString, secret)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func setUser(c *gin.Context, userID uuid.UUID) {
	c.Set(ContextKey, userID)
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), userID))
}
