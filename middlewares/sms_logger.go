package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/utils"
)

// SMSWebhookLogger logs every provider callback before and after it is handled.
func SMSWebhookLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.InfoLogger.Printf("SMS webhook: from=%s to=%s sid=%s media=%s",
			c.PostForm("From"), c.PostForm("To"), c.PostForm("MessageSid"), c.PostForm("NumMedia"))

		c.Next()

		if c.Writer.Status() != 200 {
			utils.ErrorLogger.Printf("SMS webhook %s answered %d", c.PostForm("MessageSid"), c.Writer.Status())
		}
	}
}
