package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/cache"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"go.uber.org/zap"
)

// Health reports database and Redis reachability
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	if err := h.pingDatabase(ctx); err != nil {
		logger.Log.Error("Health check: database unreachable", zap.Error(err))
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if redis := cache.GetRedisClient(); redis == nil {
		checks["redis"] = "disabled"
	} else if err := redis.Ping(ctx); err != nil {
		logger.Log.Warn("Health check: redis unreachable", zap.Error(err))
		checks["redis"] = "unavailable"
	} else {
		checks["redis"] = "ok"
	}

	label := "healthy"
	if status != http.StatusOK {
		label = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":    label,
		"service":   "inkwell-backend",
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handlers) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
