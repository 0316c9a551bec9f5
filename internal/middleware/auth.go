package middleware

import (
	"context"
	"net/http"

	"debatehub/internal/models"
	"debatehub/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey  = "user"
	SessionUserID = "user_id"
)

// UserLookup resolves an identity to a stored user.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser resolves the caller from the session, or from trustedHeader when
// it is set, and stores the user under CheckUserKey. Unknown ids leave the
// request anonymous.
func LoadUser(users UserLookup, trustedHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := identity(c, trustedHeader); ok {
			user, err := users.GetUser(c.Request.Context(), id)
			if err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

func identity(c *gin.Context, trustedHeader string) (uint, bool) {
	if trustedHeader != "" {
		if v := c.GetHeader(trustedHeader); v != "" {
			return utils.ParseID(v)
		}
	}
	switch v := sessions.Default(c).Get(SessionUserID).(type) {
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case string:
		return utils.ParseID(v)
	}
	return 0, false
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID returns 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			utils.SendError(c, http.StatusUnauthorized, "Login required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.SendError(c, http.StatusUnauthorized, "Login required")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			utils.SendError(c, http.StatusForbidden, "Admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
