package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/resto-panel/middlewares"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT("middleware-secret", time.Hour)
}

func tenantEcho(c *gin.Context) {
	c.String(http.StatusOK, middlewares.EntrepriseID(c))
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/private", middlewares.AuthMiddleware(), tenantEcho)

	token, err := utils.GenerateToken("ent-1", "bella@example.fr")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Token " + token, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "ent-1", w.Body.String())
			}
		})
	}
}

func TestWebSocketAuthMiddleware_QueryToken(t *testing.T) {
	r := gin.New()
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), tenantEcho)

	token, err := utils.GenerateToken("ent-9", "x@example.fr")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ws?token="+token, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ent-9", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/ws", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSameTenant(t *testing.T) {
	r := gin.New()
	r.GET("/entreprises/:id", func(c *gin.Context) {
		c.Set(middlewares.ContextEntrepriseID, "ent-1")
		c.Next()
	}, middlewares.SameTenant("id"), tenantEcho)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/entreprises/ent-1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/entreprises/ent-2", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := middlewares.NewRateLimiter(1, 2)
	r := gin.New()
	r.GET("/", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// each IP has its own quota
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestTwilioSignatureMiddleware(t *testing.T) {
	const webhookURL = "https://panel.example.fr/api/sms/webhook"
	twilio := services.NewTwilioService(&services.TwilioConfig{AccountSID: "AC1", AuthToken: "12345", PhoneNumber: "+33700000000"})

	r := gin.New()
	r.POST("/api/sms/webhook", middlewares.TwilioSignatureMiddleware(twilio, webhookURL), func(c *gin.Context) {
		c.String(http.StatusOK, c.PostForm("Body"))
	})

	form := url.Values{
		"To":         {"+33700000000"},
		"From":       {"+33612345678"},
		"Body":       {"12 rue de la Paix 75001 Paris"},
		"MessageSid": {"SM1"},
	}
	send := func(signature string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("POST", "/api/sms/webhook", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Twilio-Signature", signature)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send("IeBjSZ1IwogeFY3HkzHUIom33dY=")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12 rue de la Paix 75001 Paris", w.Body.String())

	w = send("bm90LXRoZS1zaWduYXR1cmU=")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
