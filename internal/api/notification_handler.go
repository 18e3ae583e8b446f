package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/domain"
	"github.com/ajna/ajna-hub/internal/metrics"
	"github.com/ajna/ajna-hub/pkg/response"
)

type NotificationHandler struct {
	service *domain.NotificationService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewNotificationHandler(service *domain.NotificationService, m *metrics.Metrics, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

type notifyRequest struct {
	DeviceID *string `json:"device_id"`
	Title    *string `json:"title"`
	Body     *string `json:"body"`
}

type notifyResult struct {
	Result    string `json:"result"`
	MessageID string `json:"message_id"`
}

func (h *NotificationHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	messageID, err := h.service.Notify(r.Context(), domain.NotificationRequest{
		DeviceID: deref(req.DeviceID),
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		h.metrics.Notifications.WithLabelValues(notifyOutcome(err)).Inc()
		writeDomainError(w, h.logger, err, "failed to send notification")
		return
	}

	h.metrics.Notifications.WithLabelValues("sent").Inc()
	h.logger.Info("notification sent", zap.String("device_id", deref(req.DeviceID)), zap.String("message_id", messageID))
	response.OK(w, notifyResult{Result: "sent", MessageID: messageID})
}

func notifyOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "unknown_device"
	case errors.Is(err, domain.ErrDispatch):
		return "dispatch_failed"
	default:
		return "error"
	}
}
