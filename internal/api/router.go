// Package api provides the HTTP API for pilot-brief.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/handler"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/middleware"
	"github.com/AmeyaMprojects/pilot-brief/internal/auth"
	"github.com/AmeyaMprojects/pilot-brief/internal/briefing"
	"github.com/AmeyaMprojects/pilot-brief/internal/featureflags"
	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics

	// RequireTLS rejects requests forwarded over plain HTTP.
	RequireTLS bool

	// BriefingRateLimit is requests per minute per client for
	// POST /v1/briefings (default: middleware.BriefingRateLimit).
	BriefingRateLimit int

	Briefings *briefing.Service
	Airports  handler.AirportDirectory
	Weather   *weather.Service
	Flags     *featureflags.Service
	Providers *resilience.Registry

	// Database is pinged by readiness and status checks (optional).
	Database handler.Pinger

	// Tokens validates operator tokens. Admin and status endpoints are not
	// mounted without it.
	Tokens *auth.TokenService
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID) // Generate/propagate request ID first
	r.Use(chimiddleware.RealIP) // Real IP for logs and rate limits
	r.Use(middleware.Tracing()) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	flags := cfg.Flags
	if flags == nil {
		flags = featureflags.NewService(featureflags.ServiceConfig{Logger: cfg.Logger})
	}

	opsCfg := handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Database:  cfg.Database,
		Flags:     flags,
	}
	if cfg.Providers != nil {
		opsCfg.Providers = cfg.Providers
	}
	if cfg.Briefings != nil {
		opsCfg.Briefings = cfg.Briefings
	}
	if cfg.Weather != nil {
		opsCfg.Weather = cfg.Weather
	}

	opsHandler := handler.NewOpsHandler(opsCfg)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(flags)

	briefingLimit := middleware.BriefingRateLimit
	if cfg.BriefingRateLimit > 0 {
		briefingLimit = middleware.PerMinute(cfg.BriefingRateLimit)
	}
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	var operatorAuth func(next http.Handler) http.Handler
	if cfg.Tokens != nil {
		operatorAuth = middleware.OperatorAuth(cfg.Tokens, auth.ScopeAdmin)
	}

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints; status exposes provider details and needs an operator token
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			if operatorAuth != nil {
				r.With(operatorAuth).Get("/status", opsHandler.SystemStatus)
			}
		})

		if cfg.Briefings != nil {
			briefingHandler := handler.NewBriefingHandler(cfg.Briefings)

			// Briefings may call the text generation provider - strict rate limiting
			r.With(middleware.RateLimitByIP(briefingLimit), middleware.RequireJSON).
				Post("/briefings", briefingHandler.CreateBriefing)
			r.With(standardRateLimit, middleware.RequireJSON).
				Post("/routes:analyze", briefingHandler.AnalyzeRoute)
		}

		if cfg.Airports != nil {
			airportHandler := handler.NewAirportHandler(cfg.Airports)
			r.With(standardRateLimit).Get("/airports/{code}", airportHandler.GetAirport)
		}

		if operatorAuth == nil {
			return
		}

		// Admin endpoints (operator token) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(operatorAuth)
			r.Use(middleware.RateLimitByOperator(middleware.AdminRateLimit))
			r.Use(middleware.RequireJSON)

			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})

			if cfg.Weather != nil {
				observationsHandler := handler.NewObservationsHandler(cfg.Weather, cfg.Logger)
				r.Post("/observations/invalidate", observationsHandler.Invalidate)
			}
		})
	})

	return r
}
