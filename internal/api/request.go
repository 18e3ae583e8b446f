package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/domain"
	"github.com/ajna/ajna-hub/pkg/response"
)

// Request bodies are tiny; anything larger is a client bug.
const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid JSON body")

// decodeJSON reads an optional JSON object into v. An empty body leaves v zero-valued.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidJSON
	}
	// Exactly one value; trailing data makes the body invalid.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

// writeDomainError maps domain error kinds onto HTTP responses
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var derr *domain.Error
	message := err.Error()
	if errors.As(err, &derr) {
		message = derr.Message
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		if derr != nil && derr.Fields.HasErrors() {
			response.ValidationFailed(w, message, derr.Fields)
			return
		}
		response.BadRequest(w, message)
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, message)
	case errors.Is(err, domain.ErrDispatch):
		logger.Error("dispatch failed", zap.Error(err))
		response.DispatchFailed(w, err.Error())
	default:
		logger.Error(fallback, zap.Error(err))
		response.InternalError(w, fallback)
	}
}
