package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/resto-panel/utils"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters map[string]*visitor
	mu       sync.Mutex
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*visitor),
	}
}

// NewStrictRateLimiter -> login endpoint, 5 requests per minute per IP
func NewStrictRateLimiter() *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(time.Minute / 5),
		burst:    5,
		limiters: make(map[string]*visitor),
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.limiters[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now

	// drop idle visitors
	if len(rl.limiters) > 10000 {
		for key, old := range rl.limiters {
			if now.Sub(old.lastSeen) > 10*time.Minute {
				delete(rl.limiters, key)
			}
		}
	}
	return v.limiter.Allow()
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			utils.RespondMessage(c, http.StatusTooManyRequests, "Trop de requêtes, veuillez patienter quelques instants")
			c.Abort()
			return
		}
		c.Next()
	}
}
