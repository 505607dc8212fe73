package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON is attached per route to endpoints that take a body.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		ct := c.GetHeader("Content-Type")
		// allow "application/json; charset=utf-8"
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			abort(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
			return
		}
		c.Next()
	}
}
