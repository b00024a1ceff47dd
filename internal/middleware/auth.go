package middleware

import (
	"net/http"

	"newsbrew/internal/db"
	"newsbrew/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves the user from the session and sets it on the context.
// Roles are preloaded so downstream checks never lazy-load.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.Preload("Roles").First(&user, "id = ?", userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in. The originally requested URL is
// stashed in the session so the callback can replay it after login.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			session.Set("next", c.Request.URL.RequestURI())
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired ensures a logged-in user holding the admin role.
// Unauthenticated callers are sent to login; authenticated non-admins get a
// plain 403, no redirect.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			session.Set("next", c.Request.URL.RequestURI())
			session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		u, exists := c.Get(CheckUserKey)
		if !exists || !u.(*models.User).HasRole(models.RoleAdmin) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
