package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sales-monitor/internal/client"
	"sales-monitor/internal/config"
	"sales-monitor/internal/export"
	"sales-monitor/internal/handlers"
	"sales-monitor/internal/middleware"
	"sales-monitor/internal/service"
	"sales-monitor/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"upstream": cfg.UpstreamAPIURL,
		"timezone": cfg.Location.String(),
	}).Info("Starting sales monitor")

	targets, err := config.LoadTargets(cfg.TargetsFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load targets file")
	}

	// Initialize components
	httpClient := client.NewHTTPClient(cfg, logger)
	store := storage.NewMemoryStore()
	svc := service.New(httpClient, store, logger, service.Options{
		DealsStaleAfter: cfg.DealsStaleAfter,
		UnitsStaleAfter: cfg.UnitsStaleAfter,
		TargetOverrides: targets,
		Location:        cfg.Location,
	})

	var sinks []export.Sink
	if cfg.SinkURL != "" {
		sinks = append(sinks, export.NewHTTPSink(cfg.SinkURL, cfg.SinkSecret, httpClient))
	}
	if cfg.R2Enabled() {
		r2, err := export.NewR2Sink(context.Background(), cfg.R2AccountID, cfg.R2AccessKey, cfg.R2SecretKey, cfg.R2Bucket)
		if err != nil {
			logger.WithError(err).Fatal("Failed to configure R2 sink")
		}
		sinks = append(sinks, r2)
	}
	exporter := export.NewExporter(logger, sinks...)

	// Initialize handlers
	handler := handlers.New(svc, exporter, logger)

	// Setup Gin router
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSOrigins),
	)
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, API authentication is disabled")
	}
	handler.Register(router, middleware.Auth(cfg.JWTSecret, logger))

	// Warm the cache; the API still starts if the upstream is down.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
		defer cancel()
		if _, err := svc.Refresh(ctx); err != nil {
			logger.WithError(err).Warn("Initial refresh failed")
		}
	}()

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
