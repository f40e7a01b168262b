package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// HealthCheck handles GET /health. Any failing dependency turns the answer into 503.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	status, code := "healthy", http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": "chatrouter",
		"checks":  checks,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) string {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return err.Error()
	}
	return "ok"
}
