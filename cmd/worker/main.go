// Package main provides the entrypoint for the pilot-brief observation refresh worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/middleware"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/response"
	"github.com/AmeyaMprojects/pilot-brief/internal/bootstrap"
	"github.com/AmeyaMprojects/pilot-brief/internal/config"
	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/telemetry"
	"github.com/AmeyaMprojects/pilot-brief/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "pilot-brief-worker"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := bootstrap.NewLogger(cfg, serviceName, Version)
	log.Info().
		Str("build_time", BuildTime).
		Msg("starting pilot-brief worker")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.FromConfig(cfg, serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	providers := resilience.NewRegistry()
	weatherService, closeStore := bootstrap.NewWeatherService(cfg, providers, log)
	defer closeStore()

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			HubAirports: cfg.Worker.HubAirports,
			BatchSize:   cfg.Weather.BatchSize,
			Concurrency: cfg.Worker.MaxConcurrency,
			Timeout:     cfg.Worker.RefreshTimeout,
		},
		Logger:    log,
		Refresher: weatherService,
	})
	dispatcher := worker.NewDispatcher(job, log)

	// Health server for the hosting platform.
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      healthRouter(job, providers, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Worker.RefreshTimeout + 15*time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	if cfg.Worker.ProjectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.Worker.ProjectID,
			SubscriptionName: cfg.Worker.SubscriptionID,
			MaxOutstanding:   cfg.Worker.MaxConcurrency,
			Dispatcher:       dispatcher,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if err := handler.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub client")
			}
		}()

		go func() {
			if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("pubsub not configured - using scheduled refreshes only")
	}

	if cfg.Worker.RefreshInterval > 0 {
		go schedule(ctx, job, cfg.Worker.RefreshInterval, log)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

// schedule runs the hub refresh immediately and then every interval.
func schedule(ctx context.Context, job *worker.RefreshJob, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result := job.Run(ctx)
		if !result.Healthy() {
			log.Warn().
				Int("available", result.Available).
				Int("total", result.TotalCodes).
				Msg("hub refresh mostly unavailable")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func healthRouter(job *worker.RefreshJob, providers *resilience.Registry, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Checks the provider through a one-airport refresh.
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := job.HealthCheck(r.Context()); err != nil {
			response.ServiceUnavailable(w, r, err.Error())
			return
		}
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		circuits := make(map[string]string)
		for _, h := range providers.GetAllHealth() {
			circuits[h.Name] = h.CircuitState.String()
		}
		response.JSON(w, r, http.StatusOK, map[string]any{
			"refresh":   job.MetricsSnapshot(),
			"providers": circuits,
		})
	})

	return r
}
