// Package bootstrap builds the components shared by the API server and the worker.
package bootstrap

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/config"
	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather/aviationweather"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather/valkeystore"
)

// NewLogger returns the process logger at the configured level.
func NewLogger(cfg *config.Config, service, version string) zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(ParseLevel(cfg.Log.Level)).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}

// ParseLevel parses a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// NewWeatherService builds the observation service on the aviationweather
// provider and, when enabled, the shared Valkey store. An unreachable store
// is logged and skipped. The returned func releases the store.
func NewWeatherService(cfg *config.Config, providers *resilience.Registry, log zerolog.Logger) (*weather.Service, func()) {
	httpCfg := resilience.DefaultClientConfig(aviationweather.ProviderName)
	httpCfg.Registry = providers
	httpCfg.Logger = log

	var store weather.Store
	closeStore := func() {}
	if cfg.Cache.Enabled {
		vs, err := valkeystore.New(cfg.Cache.Addr, cfg.Cache.Prefix)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.Addr).Msg("observation cache unavailable - using local cache only")
		} else {
			store = vs
			closeStore = vs.Close
			log.Info().Str("addr", cfg.Cache.Addr).Msg("shared observation cache connected")
		}
	}

	svc := weather.NewService(weather.ServiceConfig{
		Provider: aviationweather.NewClient(aviationweather.ClientConfig{
			BaseURL:    cfg.Weather.BaseURL,
			UserAgent:  cfg.Weather.UserAgent,
			HTTPClient: resilience.NewClient(httpCfg),
			Logger:     log,
		}),
		Store:           store,
		Logger:          log,
		CacheTTL:        cfg.Weather.CacheTTL,
		StaleIfErrorTTL: cfg.Weather.StaleIfErrorTTL,
		BatchSize:       cfg.Weather.BatchSize,
		MaxConcurrency:  cfg.Weather.MaxConcurrency,
	})
	return svc, closeStore
}
