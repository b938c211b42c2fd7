package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campus-transit/shuttle-ops-api/internal/models"
	appErrors "github.com/campus-transit/shuttle-ops-api/pkg/errors"
	"github.com/campus-transit/shuttle-ops-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing the resolved identity.
const ContextIdentityKey = "currentIdentity"

// Headers the upstream gateway sets after authenticating the caller. This
// core never sees tokens or sessions, only the resolved pair.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Identity requires a gateway-resolved {userId, role} pair on the request.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		role := models.UserRole(strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderUserRole))))

		if userID == "" || !role.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing resolved identity"))
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, models.Identity{UserID: userID, Role: role})
		c.Next()
	}
}

// IdentityFrom returns the identity stored in the gin context.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return models.Identity{}, false
	}
	id, ok := value.(models.Identity)
	return id, ok
}
