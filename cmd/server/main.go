package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camdeck/internal/core/services"
	httphandlers "camdeck/internal/handlers/http"
	"camdeck/internal/infrastructure/middleware"
	"camdeck/internal/infrastructure/monitoring"
	"camdeck/internal/infrastructure/push"
	repositories "camdeck/internal/infrastructure/repositories"
	"camdeck/internal/infrastructure/storage"
	"camdeck/pkg/config"
	"camdeck/pkg/logger"
	"camdeck/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/camdeck/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "camdeck",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Initialize repository factory
	ctx := context.Background()
	repoFactory, err := repositories.NewRepositoryFactory(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	// Closed once during shutdown, after the HTTP server has drained.

	userRepo := repoFactory.CreateUserRepository()
	recordingRepo := repoFactory.CreateRecordingRepository()

	fileStore, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalw("failed to create upload store", "error", err, "dir", cfg.Uploads.Dir)
	}

	// Initialize monitoring
	prometheusCollector := monitoring.NewPrometheusCollector()

	// Initialize push channel
	hub := push.NewHub(push.Options{
		PingInterval:   cfg.Push.PingInterval.Std(),
		PongTimeout:    cfg.Push.PongTimeout.Std(),
		WriteTimeout:   cfg.Push.WriteTimeout.Std(),
		SendBuffer:     cfg.Push.SendBuffer,
		RequireAuth:    cfg.Push.RequireAuth,
		AllowedOrigins: cfg.Auth.AllowedOrigins,
	}, prometheusCollector, log)

	// Initialize services
	statusStore := services.NewStatusStore()
	cameraService := services.NewCameraService(statusStore, hub, cfg.Camera.ConnectDelay.Std(), cfg.Camera.StreamURL, log)
	recordingService := services.NewRecordingService(recordingRepo, fileStore, log)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Std())

	// Wire the hub to the command path: snapshot for new sessions, the
	// single-writer gate for client-originated updates, token validation
	// when the push channel requires auth.
	hub.SetSnapshot(statusStore.Get)
	hub.SetUpdater(cameraService.ApplyUpdate)
	hub.SetTokenValidator(func(token string) error {
		_, err := authService.ValidateToken(token)
		return err
	})

	// Initialize HTTP handlers
	authHandler := httphandlers.NewAuthHandler(authService)
	cameraHandler := httphandlers.NewCameraHandler(cameraService, prometheusCollector)
	recordingHandler := httphandlers.NewRecordingHandler(recordingService, prometheusCollector)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestLoggerMiddleware(zapLogger))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	authMiddleware := middleware.AuthMiddleware(authService)

	authHandler.SetupRoutes(router, authMiddleware)
	cameraHandler.SetupRoutes(router, authMiddleware)
	recordingHandler.SetupRoutes(router, authMiddleware)

	// Push channel endpoint
	router.GET("/ws", gin.WrapF(hub.HandleWebSocket))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
			"observers": hub.ObserverCount(),
		})
	})

	// Readiness endpoint
	router.GET("/ready", func(c *gin.Context) {
		readyCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(readyCtx); err != nil {
			c.JSON(503, gin.H{
				"status":       "not_ready",
				"timestamp":    time.Now(),
				"dependencies": "unhealthy",
				"error":        err.Error(),
			})
			return
		}

		c.JSON(200, gin.H{
			"status":       "ready",
			"timestamp":    time.Now(),
			"dependencies": "ok",
		})
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting camdeck server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down camdeck server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("camdeck server stopped")
}
