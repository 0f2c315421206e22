package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
// A bucket idle that long has refilled, so dropping it loses no state.
const limiterIdleTTL = 10 * time.Minute

// ClientRateLimiter keeps one token bucket per client key.
// Buckets of clients that stop sending requests are evicted after the idle TTL.
type ClientRateLimiter struct {
	clients *cache.Cache
	r       rate.Limit
	b       int
}

func NewClientRateLimiter(r rate.Limit, b int, idle time.Duration) *ClientRateLimiter {
	return &ClientRateLimiter{
		clients: cache.New(idle, idle),
		r:       r,
		b:       b,
	}
}

// Limiter returns the bucket for key, creating it on first use. Every call extends the bucket's lifetime.
func (l *ClientRateLimiter) Limiter(key string) *rate.Limiter {
	if v, ok := l.clients.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.clients.Set(key, limiter, cache.DefaultExpiration)
		return limiter
	}

	limiter := rate.NewLimiter(l.r, l.b)
	if err := l.clients.Add(key, limiter, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if v, ok := l.clients.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// Len reports how many client buckets are held, including expired ones not yet swept.
func (l *ClientRateLimiter) Len() int {
	return l.clients.ItemCount()
}

// RateLimit rejects requests from a client IP that exceed rps with 429.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewClientRateLimiter(rate.Limit(rps), max(burst, 1), limiterIdleTTL)
	return func(c *gin.Context) {
		if !limiter.Limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
