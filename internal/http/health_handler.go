package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PingFunc verifica el almacenamiento.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	logger *zap.Logger
	ping   PingFunc
}

func NewHealthHandler(logger *zap.Logger, ping PingFunc) *HealthHandler {
	return &HealthHandler{logger: logger, ping: ping}
}

// Check maneja GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("storage ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
