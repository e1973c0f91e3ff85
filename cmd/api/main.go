// Package main provides the entrypoint for the pilot-brief API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/airport"
	"github.com/AmeyaMprojects/pilot-brief/internal/api"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/handler"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/middleware"
	"github.com/AmeyaMprojects/pilot-brief/internal/auth"
	"github.com/AmeyaMprojects/pilot-brief/internal/bootstrap"
	"github.com/AmeyaMprojects/pilot-brief/internal/briefing"
	"github.com/AmeyaMprojects/pilot-brief/internal/config"
	"github.com/AmeyaMprojects/pilot-brief/internal/database"
	"github.com/AmeyaMprojects/pilot-brief/internal/featureflags"
	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/telemetry"
	"github.com/AmeyaMprojects/pilot-brief/internal/textgen"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "pilot-brief-api"

func main() {
	issueFor := flag.String("issue-token", "", "print an admin token for `operator` and exit")
	readOnly := flag.Bool("read-only", false, "issue a token without the admin scope")
	flag.Parse()

	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Setup structured logging
	log := bootstrap.NewLogger(cfg, serviceName, Version)

	tokens := auth.NewTokenService(auth.TokenConfig{
		SigningKey: cfg.Auth.SigningKey,
		Issuer:     cfg.Auth.Issuer,
	})
	if cfg.DevSigningKey() {
		log.Warn().Msg("using default signing key - not secure for production")
	}

	if *issueFor != "" {
		os.Exit(issueToken(tokens, *issueFor, *readOnly))
	}

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Server.Env).
		Msg("starting pilot-brief API")

	ctx := context.Background()

	// Initialize OpenTelemetry
	tp, err := telemetry.Init(ctx, telemetry.FromConfig(cfg, serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Float64("sample_ratio", cfg.Telemetry.SampleRatio).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize HTTP metrics")
	}
	briefingMetrics, err := briefing.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize briefing metrics")
	}

	// Connect to database (optional)
	var pool *pgxpool.Pool
	airportRepo := airport.Repository(airport.NewSeededRepository())
	var flagRepo featureflags.Repository
	if cfg.Database.Enabled {
		pool, err = database.Connect(ctx, cfg.Database.Config)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}

		pgAirports := airport.NewPostgresRepository(pool)
		seeded, err := pgAirports.SeedIfEmpty(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed airport directory")
		}
		airportRepo = pgAirports
		flagRepo = featureflags.NewPostgresRepository(pool)

		log.Info().
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.Database).
			Int("airports_seeded", seeded).
			Msg("database connected")
	} else {
		log.Info().Msg("database disabled - using built-in airport directory")
	}

	// Provider clients share one health registry.
	providers := resilience.NewRegistry()

	weatherService, closeStore := bootstrap.NewWeatherService(cfg, providers, log)
	defer closeStore()

	textgenHTTP := resilience.DefaultClientConfig(textgen.ProviderName)
	textgenHTTP.Timeout = cfg.TextGen.Timeout
	textgenHTTP.MaxRetries = 1
	textgenHTTP.Registry = providers
	textgenHTTP.Logger = log
	textgenClient := textgen.NewClient(textgen.ClientConfig{
		APIKey:     cfg.TextGen.APIKey,
		BaseURL:    cfg.TextGen.BaseURL,
		Model:      cfg.TextGen.Model,
		HTTPClient: resilience.NewClient(textgenHTTP),
		Logger:     log,
	})
	if cfg.TextGen.APIKey == "" {
		log.Warn().Msg("text generation not configured - briefings use local summaries")
	} else if cfg.TextGen.LogModels {
		logModels(ctx, textgenClient, log)
	}

	directory := airport.NewDirectory(airport.ServiceConfig{
		Repository: airportRepo,
		Logger:     log,
	})

	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: flagRepo,
		Logger:     log,
		CacheTTL:   cfg.Briefing.FeatureFlagsCacheTTL,
	})
	log.Info().Msg("feature flags service initialized")

	generator := briefing.NewGenerator(briefing.GeneratorConfig{
		Client:  textgenClient,
		Flags:   flagService,
		Metrics: briefingMetrics,
		Logger:  log,
	})
	briefingService := briefing.NewService(briefing.ServiceConfig{
		Lookup:        directory,
		Candidates:    directory,
		Weather:       weatherService,
		Generator:     generator,
		Coalescer:     briefing.NewCoalescer[briefing.Summary](cfg.Briefing.GenerationTimeout, log),
		Flags:         flagService,
		Logger:        log,
		CruiseSpeedKT: cfg.Briefing.CruiseSpeedKT,
		Corridor: &route.CorridorOptions{
			WidthNM:         cfg.Briefing.CorridorWidthNM,
			DetourTolerance: cfg.Briefing.CorridorTolerance,
			MaxCount:        cfg.Briefing.CorridorMaxCount,
		},
	})
	if err := briefingMetrics.ObserveCoalescer(briefingService.CoalescerStats); err != nil {
		log.Fatal().Err(err).Msg("failed to register coalescer metrics")
	}
	log.Info().Msg("briefing service initialized")

	routerCfg := api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		Metrics:           httpMetrics,
		RequireTLS:        cfg.Server.RequireTLS,
		BriefingRateLimit: cfg.Briefing.RateLimitPerMinute,
		Briefings:         briefingService,
		Airports:          directory,
		Weather:           weatherService,
		Flags:             flagService,
		Providers:         providers,
		Tokens:            tokens,
	}
	if pool != nil {
		routerCfg.Database = handler.Pinger(pool)
	}
	router := api.NewRouter(routerCfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

func logModels(ctx context.Context, client *textgen.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to list text generation models")
		return
	}
	for _, m := range models {
		log.Info().
			Str("model", m.Name).
			Bool("generation", m.SupportsGeneration()).
			Msg("text generation model available")
	}
}

func issueToken(tokens *auth.TokenService, operator string, readOnly bool) int {
	var scopes []string
	if !readOnly {
		scopes = append(scopes, auth.ScopeAdmin)
	}
	token, expires, err := tokens.Issue(operator, scopes...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))
	return 0
}
