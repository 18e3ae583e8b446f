package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/pkg/response"
)

// Bound on the store check behind /ready
const readyTimeout = 5 * time.Second

// HealthHandler handles health check endpoints
type HealthHandler struct {
	devices DeviceCounter
	logger  *zap.Logger
	now     func() time.Time
}

// NewHealthHandler creates a new health handler. devices is queried by Ready.
func NewHealthHandler(devices DeviceCounter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		devices: devices,
		logger:  logger,
		now:     time.Now,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health returns the health status with an RFC 3339 UTC timestamp
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Ready reports whether the device store answers a count query
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if _, err := h.devices.Count(ctx); err != nil {
		h.logger.Warn("device store not ready", zap.Error(err))
		response.ServiceUnavailable(w, "device store unavailable")
		return
	}

	response.OK(w, HealthResponse{
		Status: "ready",
		Time:   h.now().UTC().Format(time.RFC3339Nano),
	})
}
