package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisRateLimitConfig holds configuration for the rate limiter
type RedisRateLimitConfig struct {
	Enabled            bool
	RequestsPerMinute  int
	BurstSize          int
	ClientIPHeaderName string
}

// Fixed one-minute window per client; the burst allowance is added on top
// of the per-minute limit.
var rateLimitScript = redis.NewScript(`
	local window_key = KEYS[1]
	local limit = tonumber(ARGV[1]) + tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local reset_time = (math.floor(now / 60) + 1) * 60

	local current = redis.call('INCR', window_key)
	if current == 1 then
		redis.call('EXPIRE', window_key, 60)
	end

	if current <= limit then
		return {1, limit - current, reset_time}
	end
	return {0, 0, reset_time}
`)

// RedisRateLimit creates middleware for rate limiting requests using Redis.
// Limiter failures let the request through.
func RedisRateLimit(redisClient redis.Scripter, config RedisRateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		clientIP := limitedClientIP(c, config.ClientIPHeaderName)

		allowed, remaining, resetTime, err := checkRateLimit(c.Request.Context(), redisClient, clientIP, config.RequestsPerMinute, config.BurstSize, time.Now())
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err), zap.String("client_ip", clientIP))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

		if !allowed {
			c.Header("Retry-After", strconv.FormatInt(resetTime-time.Now().Unix(), 10))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// limitedClientIP picks the address a request is limited by. The named header
// is honored only when configured.
func limitedClientIP(c *gin.Context, headerName string) string {
	if headerName != "" {
		if headerIP := c.GetHeader(headerName); headerIP != "" {
			return headerIP
		}
	}
	return c.ClientIP()
}

func rateLimitKey(clientIP string, now time.Time) string {
	return fmt.Sprintf("storefront:ratelimit:%s:%d", clientIP, now.Unix()/60)
}

// checkRateLimit checks if a request is allowed based on rate limits
func checkRateLimit(ctx context.Context, redisClient redis.Scripter, clientIP string, requestsPerMinute, burstSize int, now time.Time) (bool, int, int64, error) {
	result, err := rateLimitScript.Run(
		ctx,
		redisClient,
		[]string{rateLimitKey(clientIP, now)},
		requestsPerMinute,
		burstSize,
		now.Unix(),
	).Result()
	if err != nil {
		return false, 0, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, 0, fmt.Errorf("unexpected rate limit script result %v", result)
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	resetTime, _ := values[2].(int64)

	return allowed == 1, int(remaining), resetTime, nil
}
