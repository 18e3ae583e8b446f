package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/domain"
	"github.com/ajna/ajna-hub/pkg/response"
)

type DeviceHandler struct {
	service *domain.DeviceService
	logger  *zap.Logger
}

func NewDeviceHandler(service *domain.DeviceService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		service: service,
		logger:  logger,
	}
}

type registerDeviceRequest struct {
	DeviceID *string `json:"device_id"`
	FCMToken *string `json:"fcm_token"`
}

type deviceResult struct {
	Result   string `json:"result"`
	DeviceID string `json:"device_id"`
}

func (h *DeviceHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	id, err := h.service.Register(r.Context(), deref(req.DeviceID), req.FCMToken)
	if err != nil {
		writeDomainError(w, h.logger, err, "failed to register device")
		return
	}

	h.logger.Info("device registered", zap.String("device_id", id), zap.Bool("has_token", req.FCMToken != nil))
	response.OK(w, deviceResult{Result: "registered", DeviceID: id})
}

func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.service.List(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err, "failed to list devices")
		return
	}
	response.OK(w, devices)
}

type heartbeatRequest struct {
	DeviceID *string `json:"device_id"`
}

func (h *DeviceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	id, err := h.service.Heartbeat(r.Context(), deref(req.DeviceID))
	if err != nil {
		writeDomainError(w, h.logger, err, "failed to record heartbeat")
		return
	}

	response.OK(w, deviceResult{Result: "ok", DeviceID: id})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
