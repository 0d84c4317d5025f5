package auth

import (
	"context"
	"net/http"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminResolver resolves a caller to an admin identity.
type AdminResolver interface {
	ResolveAdmin(ctx context.Context, caller *identity.Caller) (*admin.Info, error)
}

// AdminMiddleware creates a gin middleware that admits only admin callers.
// It must be used AFTER AuthMiddleware.
func AdminMiddleware(gate AdminResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated", "code": "unauthenticated"})
			return
		}

		info, err := gate.ResolveAdmin(c.Request.Context(), caller)
		if err != nil {
			logrus.WithError(err).WithField("user_id", caller.UserID).Error("Failed to resolve admin")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "internal"})
			return
		}
		if info == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required", "code": "unauthorized"})
			return
		}

		c.Set(adminKey, info)
		c.Next()
	}
}

// AdminFrom returns the admin identity set by AdminMiddleware, or nil.
func AdminFrom(c *gin.Context) *admin.Info {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil
	}
	info, _ := v.(*admin.Info)
	return info
}
