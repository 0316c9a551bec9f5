package handlers

import (
	"context"
	"net/http"
	"time"

	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger // nil for the in-memory store
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			utils.LogError(err, "health check failed")
			utils.SendError(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	utils.SendSuccess(c, http.StatusOK, "ok", nil)
}
