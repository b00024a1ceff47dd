package handlers

import (
	"newsbrew/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render injects common variables (current user, CSP nonce, path) before
// handing off to the template.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}
	if nonce, exists := c.Get(middleware.NonceKey); exists {
		obj["Nonce"] = nonce
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// cloneH shallow-copies render data so Render's injected values never end up
// in a map shared with the cache.
func cloneH(obj gin.H) gin.H {
	out := make(gin.H, len(obj)+3)
	for k, v := range obj {
		out[k] = v
	}
	return out
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
