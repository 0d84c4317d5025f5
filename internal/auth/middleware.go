package auth

import (
	"net/http"
	"strings"

	"gamecatalog/backend/internal/identity"
	"gamecatalog/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares.
const (
	userIDKey = "userID"
	adminKey  = "admin"
)

// AuthMiddleware requires a valid bearer token and records the caller.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required", "code": "unauthenticated"})
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be Bearer {token}", "code": "unauthenticated"})
			return
		}

		if !setCaller(c, tokenString, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": "unauthenticated"})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware inspects for a token and sets the caller if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			setCaller(c, tokenString, secret)
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setCaller(c *gin.Context, tokenString, secret string) bool {
	claims, err := jwt.ParseToken(tokenString, secret)
	if err != nil {
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		return false
	}

	caller := &identity.Caller{UserID: userID, Anonymous: claims.Anonymous}
	c.Set(userIDKey, userID)
	c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), caller))
	return true
}

// CallerFrom returns the caller resolved for this request, or nil.
func CallerFrom(c *gin.Context) *identity.Caller {
	return identity.FromContext(c.Request.Context())
}
