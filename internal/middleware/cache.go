package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets a short public max-age on GET responses. Used on the
// availability endpoint, where slot data goes stale within seconds.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" {
			c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		} else {
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}
