package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/ajna/ajna-hub/internal/api"
	"github.com/ajna/ajna-hub/internal/config"
	"github.com/ajna/ajna-hub/internal/domain"
	"github.com/ajna/ajna-hub/internal/fcm"
	"github.com/ajna/ajna-hub/internal/llm"
	"github.com/ajna/ajna-hub/internal/logging"
	"github.com/ajna/ajna-hub/internal/metrics"
	"github.com/ajna/ajna-hub/internal/repository"
	"github.com/ajna/ajna-hub/internal/sysinfo"
	"github.com/ajna/ajna-hub/internal/version"
)

func main() {
	startTime := time.Now()

	// Load .env file if exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	build := version.String()
	logger.Info("Starting AJNA hub",
		zap.String("version", build),
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Addr()),
		zap.String("store", cfg.Store.Backend),
	)

	if !cfg.Auth.Enforce {
		logger.Warn("API key enforcement is OFF - every route is open; set API_KEY to enable it")
	}

	ctx := context.Background()

	// Firebase backs push delivery and, by default, the device store
	app, err := initFirebase(ctx, cfg.Firebase)
	if err != nil {
		if cfg.Store.Backend == config.StoreFirestore {
			logger.Fatal("Failed to initialize Firebase", zap.Error(err))
		}
		logger.Warn("Failed to initialize Firebase - push notifications will be disabled", zap.Error(err))
	}

	var repo domain.DeviceRepository
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := initDatabase(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		pg := repository.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to create devices table", zap.Error(err))
		}
		repo = pg
		logger.Info("Connected to database")
	default:
		client, err := app.Firestore(ctx)
		if err != nil {
			logger.Fatal("Failed to open Firestore", zap.Error(err))
		}
		defer client.Close()

		repo = repository.NewFirestoreRepository(client, cfg.Store.Collection)
		logger.Info("Connected to Firestore", zap.String("collection", cfg.Store.Collection))
	}

	// A nil Pusher makes /notify report a dispatch failure instead of crashing
	var pusher domain.Pusher
	if app != nil {
		fcmClient, err := fcm.NewClient(ctx, app, logger)
		if err != nil {
			logger.Warn("Failed to initialize FCM client - push notifications will be disabled", zap.Error(err))
		} else {
			pusher = fcmClient
			logger.Info("FCM client initialized")
		}
	}

	m := metrics.NewDefault()
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)

	// Initialize services
	deviceService := domain.NewDeviceService(repo)
	notificationService := domain.NewNotificationService(repo, pusher)
	chatService := domain.NewChatService(llmClient)

	// Initialize handlers
	healthHandler := api.NewHealthHandler(deviceService, logger)
	deviceHandler := api.NewDeviceHandler(deviceService, logger)
	notificationHandler := api.NewNotificationHandler(notificationService, m, logger)
	chatHandler := api.NewChatHandler(chatService, m, logger)
	dashboardHandler := api.NewDashboardHandler(deviceService, sysinfo.NewHostSampler("/"), build, startTime, logger)

	router := api.NewRouter(healthHandler, deviceHandler, notificationHandler, chatHandler, dashboardHandler, cfg, m, logger)
	r := router.Setup()

	// WriteTimeout leaves room for a full LLM round trip
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func initFirebase(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}
	return app, nil
}

func initDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// The device table is small; a handful of connections is plenty
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
