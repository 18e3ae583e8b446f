package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/config"
	"github.com/ajna/ajna-hub/internal/metrics"
	"github.com/ajna/ajna-hub/internal/middleware"
)

// Router holds all handlers and creates the chi router
type Router struct {
	healthHandler       *HealthHandler
	deviceHandler       *DeviceHandler
	notificationHandler *NotificationHandler
	chatHandler         *ChatHandler
	dashboardHandler    *DashboardHandler
	cfg                 *config.Config
	metrics             *metrics.Metrics
	logger              *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	healthHandler *HealthHandler,
	deviceHandler *DeviceHandler,
	notificationHandler *NotificationHandler,
	chatHandler *ChatHandler,
	dashboardHandler *DashboardHandler,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		healthHandler:       healthHandler,
		deviceHandler:       deviceHandler,
		notificationHandler: notificationHandler,
		chatHandler:         chatHandler,
		dashboardHandler:    dashboardHandler,
		cfg:                 cfg,
		metrics:             m,
		logger:              logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. CORS runs before the key gate so preflights are answered.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.MetricsMiddleware(rt.metrics))
	r.Use(middleware.CORSMiddleware(rt.cfg.Server.AllowedOrigins))
	r.Use(middleware.APIKeyMiddleware(rt.cfg.Auth, rt.logger))
	r.Use(chimiddleware.Compress(5))

	r.Get(middleware.HealthPath, rt.healthHandler.Health)
	r.Head(middleware.HealthPath, rt.healthHandler.Health)
	r.Get("/ready", rt.healthHandler.Ready)

	r.Post("/chat", rt.chatHandler.Chat)
	r.Post("/llm", rt.chatHandler.LLM)

	r.Post("/register-device", rt.deviceHandler.RegisterDevice)
	r.Get("/devices", rt.deviceHandler.ListDevices)
	r.Post("/heartbeat", rt.deviceHandler.Heartbeat)

	r.Post("/notify", rt.notificationHandler.Notify)

	r.Get("/admin/dashboard", rt.dashboardHandler.Dashboard)
	r.Method("GET", "/metrics", rt.metrics.Handler())

	return r
}
