package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/domain"
	"github.com/ajna/ajna-hub/internal/llm"
	"github.com/ajna/ajna-hub/internal/metrics"
	"github.com/ajna/ajna-hub/pkg/response"
)

type ChatHandler struct {
	service *domain.ChatService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewChatHandler(service *domain.ChatService, m *metrics.Metrics, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat echoes the message back without contacting any service
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, chatResponse{Response: h.service.Echo(req.Message)})
}

// LLM relays the message to the local generation service and returns its body verbatim
func (h *ChatHandler) LLM(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	status, body, err := h.service.Generate(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrEmptyResponse):
			h.metrics.LLMRequests.WithLabelValues("empty").Inc()
			h.logger.Warn("LLM service returned an empty body")
			response.BadGateway(w, "Empty response from LLM service")
		case errors.Is(err, llm.ErrBadResponse):
			h.metrics.LLMRequests.WithLabelValues("bad_response").Inc()
			h.logger.Warn("LLM service returned an invalid body", zap.Error(err))
			response.BadGateway(w, "Invalid response from LLM service")
		default:
			h.metrics.LLMRequests.WithLabelValues("unavailable").Inc()
			h.logger.Error("LLM service error", zap.Error(err))
			response.ServiceUnavailable(w, "LLM service unavailable")
		}
		return
	}

	h.metrics.LLMRequests.WithLabelValues("ok").Inc()
	response.Raw(w, status, body)
}
