package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is an in-memory per-client token bucket limiter. It backs the
// Redis limiter when Redis is not configured.
type RateLimiter struct {
	rate  float64 // tokens per second
	burst float64

	// a bucket idle this long is full again and can be dropped
	idle time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute steady traffic
// with bursts of burstSize per client
func NewRateLimiter(requestsPerMinute, burstSize int) *RateLimiter {
	rate := float64(requestsPerMinute) / 60.0
	idle := time.Minute
	if rate > 0 {
		idle = time.Duration(float64(burstSize) / rate * float64(time.Second))
	}
	if idle < time.Minute {
		idle = time.Minute
	}

	return &RateLimiter{
		rate:    rate,
		burst:   float64(burstSize),
		idle:    idle,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow takes one token from the client's bucket
func (r *RateLimiter) Allow(clientIP string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= r.idle {
		r.sweep(now)
	}

	b, ok := r.buckets[clientIP]
	if !ok {
		b = &bucket{tokens: r.burst, seen: now}
		r.buckets[clientIP] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * r.rate
	if b.tokens > r.burst {
		b.tokens = r.burst
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Clients returns the number of tracked client buckets
func (r *RateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}

// sweep drops buckets that have refilled completely. Caller holds mu.
func (r *RateLimiter) sweep(now time.Time) {
	for ip, b := range r.buckets {
		if now.Sub(b.seen) >= r.idle {
			delete(r.buckets, ip)
		}
	}
	r.lastSweep = now
}

// RateLimit creates middleware for rate limiting requests in memory
func RateLimit(requestsPerMinute, burstSize int) gin.HandlerFunc {
	return rateLimitWith(NewRateLimiter(requestsPerMinute, burstSize))
}

func rateLimitWith(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded. Try again later.",
		})
	}
}
