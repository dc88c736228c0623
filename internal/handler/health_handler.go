package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Pinger is the Redis subset the health check needs
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler reports liveness and optional backend availability
type HealthHandler struct {
	redis  Pinger
	kafka  bool
	logger *zap.Logger
}

// NewHealthHandler creates a health handler. redis may be nil.
func NewHealthHandler(redis Pinger, kafkaEnabled bool, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{redis: redis, kafka: kafkaEnabled, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := h.redis.Ping(ctx).Err(); err != nil {
			status = "degraded"
			h.logger.Warn("Redis health check failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"redis":  h.redis != nil,
		"kafka":  h.kafka,
	})
}
