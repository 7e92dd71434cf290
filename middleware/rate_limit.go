package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/facteam/blog-api/config"
	"github.com/facteam/blog-api/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimit applies a per-IP token bucket limiter.
func RateLimit() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := max(cfg.RateLimitPerMinute, 1)
	r := rate.Every(time.Minute / time.Duration(perMinute))
	burst := max(perMinute/2, 1)

	return func(ctx *gin.Context) {
		limiter := getLimiter(ctx.ClientIP(), r, burst)

		limiter.mu.Lock()
		allowed := limiter.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			utils.Error(ctx, 429, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func getLimiter(key string, limit rate.Limit, burst int) *rateLimiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	now := time.Now()
	for k, l := range limiters {
		if now.After(l.expires) {
			delete(limiters, k)
		}
	}

	if limiter, ok := limiters[key]; ok {
		limiter.expires = now.Add(5 * time.Minute)
		return limiter
	}

	limiter := &rateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		expires: now.Add(5 * time.Minute),
	}
	limiters[key] = limiter
	return limiter
}
