package middleware

import (
	"net/http"
	"strings"

	"myhabits/services"
	"myhabits/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the Bearer token and puts the authenticated
// user ID into the request context under "user_id".
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			utils.TrackError("auth", "invalid_token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
