package middleware

import (
	"log"
	"net/http"

	"myhabits/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.TrackError("panic", "handler_panic")
				log.Printf("Recovered from panic on %s: %v", c.Request.URL.Path, err)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
