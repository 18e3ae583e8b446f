package middleware

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/config"
	"github.com/ajna/ajna-hub/pkg/response"
)

const (
	APIKeyHeader     = "X-API-Key"
	APIKeyQueryParam = "key"

	// HealthPath is the only route served without a key.
	HealthPath = "/health"

	unauthorizedMessage = "Unauthorized: invalid or missing API key"
)

// APIKeyMiddleware gates every request except the health check behind the configured key.
// With enforcement off it passes everything through.
func APIKeyMiddleware(cfg config.AuthConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	expected := []byte(cfg.APIKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == HealthPath {
				next.ServeHTTP(w, r)
				return
			}

			if !cfg.Enforce {
				logger.Debug("api key not enforced", zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			provided := APIKeyFromRequest(r)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				logger.Warn("rejected request with invalid api key",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("ip", getRealIP(r)),
					zap.Bool("key_present", provided != ""),
				)
				response.Unauthorized(w, unauthorizedMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyFromRequest returns the X-API-Key header if non-empty, else the key query parameter.
func APIKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}
	return r.URL.Query().Get(APIKeyQueryParam)
}
