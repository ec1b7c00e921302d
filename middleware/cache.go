package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// CacheControlMiddleware marks responses as privately cacheable for the
// given number of seconds. Used on the report endpoint so clients don't
// hammer recomputes.
func CacheControlMiddleware(seconds int) gin.HandlerFunc {
	value := "private, max-age=" + strconv.Itoa(seconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
