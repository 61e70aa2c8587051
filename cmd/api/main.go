package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/email-api/internal/config"
	"github.com/jwalitptl/email-api/internal/email"
	"github.com/jwalitptl/email-api/internal/email/provider"
	"github.com/jwalitptl/email-api/internal/handler"
	emailHandler "github.com/jwalitptl/email-api/internal/handler/email"
	promHandler "github.com/jwalitptl/email-api/internal/handler/prometheus"
	"github.com/jwalitptl/email-api/internal/middleware"
	"github.com/jwalitptl/email-api/internal/router"
	"github.com/jwalitptl/email-api/pkg/logger"
	"github.com/jwalitptl/email-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		Env:   cfg.Log.Env,
	})

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("email_api", registry)

	// Initialize provider and service
	p, err := provider.New(cfg)
	if err != nil {
		if p == nil {
			log.Fatal().Err(err).Msg("failed to create email provider")
		}
		log.Error().Err(err).Msg("failed to initialize email provider client")
	}

	svc, err := provider.NewService(cfg, p, time.Now().Year(), email.Options{
		Logger:  log,
		Metrics: m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create email service")
	}

	// Initialize handlers
	h := handler.NewHandler(svc)
	eh := emailHandler.NewHandler(svc, log)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	var mh router.MetricsHandler
	if cfg.Metrics.Enabled {
		mh = promHandler.New(registry, m)
	}

	// Setup router
	r := router.NewRouter(h, eh, router.RouterConfig{
		Logger:       log,
		CORSConfig:   corsConfig,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Metrics:      mh,
		MetricsPath:  cfg.Metrics.Path,
	}).Setup()

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("provider", svc.ProviderName()).
			Bool("configured", svc.IsConfigured()).
			Msg("starting email API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(srv, cfg.Server.ShutdownTimeout, log)
}

func waitForShutdown(srv *http.Server, timeout time.Duration, log zerolog.Logger) {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
