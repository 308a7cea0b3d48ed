package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger проверяет доступность backend.
type Pinger interface {
	Configured() bool
	Ping(ctx context.Context) error
}

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	upstream Pinger
	timeout  time.Duration
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(upstream Pinger) *HealthHandler {
	return &HealthHandler{upstream: upstream, timeout: 5 * time.Second}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health обрабатывает GET /health.
// unhealthy: API_URL не задан (503); degraded: backend недоступен, шлюз жив (200).
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if !h.upstream.Configured() {
		checks["upstream"] = "unhealthy: API_URL не задан"
		status = "unhealthy"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.upstream.Ping(ctx); err != nil {
			checks["upstream"] = "unreachable"
			status = "degraded"
		} else {
			checks["upstream"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}
