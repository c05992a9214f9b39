package middlewares

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/utils"
)

// SignatureValidator is implemented by services.TwilioService.
type SignatureValidator interface {
	ValidateSignature(fullURL string, params url.Values, signature string) bool
}

// TwilioSignatureMiddleware rejects webhook calls whose X-Twilio-Signature does not match.
// webhookURL must be the public URL configured on the Twilio number.
func TwilioSignatureMiddleware(validator SignatureValidator, webhookURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		fullURL := webhookURL
		if fullURL == "" {
			scheme := "http"
			if c.Request.TLS != nil {
				scheme = "https"
			}
			if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
				scheme = proto
			}
			fullURL = scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
		}

		if !validator.ValidateSignature(fullURL, c.Request.PostForm, c.GetHeader("X-Twilio-Signature")) {
			utils.ErrorLogger.Printf("Rejected webhook with invalid signature from %s", c.ClientIP())
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
