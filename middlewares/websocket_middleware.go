package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware accepts the token as ?token= since browsers cannot set headers on upgrade.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.AbortWithStatus(401)
			return
		}
		if !authenticate(c, token) {
			return
		}
		c.Next()
	}
}
