// Package config loads service configuration from defaults, an optional
// config file and PILOTBRIEF_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AmeyaMprojects/pilot-brief/internal/database"
)

// EnvPrefix prefixes every environment variable: PILOTBRIEF_SERVER_PORT → server.port.
const EnvPrefix = "PILOTBRIEF"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	TextGen   TextGenConfig   `mapstructure:"textgen"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Briefing  BriefingConfig  `mapstructure:"briefing"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequireTLS   bool          `mapstructure:"require_tls"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// DatabaseConfig enables PostgreSQL-backed repositories. When disabled the
// services run on the seeded in-memory directory.
type DatabaseConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	database.Config `mapstructure:",squash"`
}

// CacheConfig enables the shared Valkey observation cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Prefix  string `mapstructure:"prefix"`
}

type TextGenConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogModels bool          `mapstructure:"log_models"`
}

type WeatherConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	UserAgent       string        `mapstructure:"user_agent"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	StaleIfErrorTTL time.Duration `mapstructure:"stale_if_error_ttl"`
	BatchSize       int           `mapstructure:"batch_size"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
}

type BriefingConfig struct {
	GenerationTimeout    time.Duration `mapstructure:"generation_timeout"`
	CruiseSpeedKT        float64       `mapstructure:"cruise_speed_kt"`
	CorridorWidthNM      float64       `mapstructure:"corridor_width_nm"`
	CorridorTolerance    float64       `mapstructure:"corridor_tolerance"`
	CorridorMaxCount     int           `mapstructure:"corridor_max_count"`
	RateLimitPerMinute   int           `mapstructure:"rate_limit_per_minute"`
	FeatureFlagsCacheTTL time.Duration `mapstructure:"feature_flags_cache_ttl"`
}

type WorkerConfig struct {
	ProjectID       string        `mapstructure:"project_id"`
	SubscriptionID  string        `mapstructure:"subscription_id"`
	HubAirports     []string      `mapstructure:"hub_airports"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	RefreshTimeout  time.Duration `mapstructure:"refresh_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // zero disables scheduled refreshes
}

type AuthConfig struct {
	SigningKey string `mapstructure:"signing_key"`
	Issuer     string `mapstructure:"issuer"`
}

const devSigningKey = "local-dev-signing-key-change-in-production"

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 45*time.Second)
	v.SetDefault("server.require_tls", false)

	v.SetDefault("log.level", "info")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pilotbrief")
	v.SetDefault("database.password", "localdev")
	v.SetDefault("database.dbname", "pilotbrief")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.prefix", "pilotbrief:obs:")

	v.SetDefault("textgen.api_key", "")
	v.SetDefault("textgen.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("textgen.model", "gemini-1.5-flash")
	v.SetDefault("textgen.timeout", 30*time.Second)
	v.SetDefault("textgen.log_models", false)

	v.SetDefault("weather.base_url", "https://aviationweather.gov/api/data")
	v.SetDefault("weather.user_agent", service)
	v.SetDefault("weather.cache_ttl", 10*time.Minute)
	v.SetDefault("weather.stale_if_error_ttl", 2*time.Hour)
	v.SetDefault("weather.batch_size", 10)
	v.SetDefault("weather.max_concurrency", 4)

	v.SetDefault("briefing.generation_timeout", 30*time.Second)
	v.SetDefault("briefing.cruise_speed_kt", 120.0)
	v.SetDefault("briefing.corridor_width_nm", 50.0)
	v.SetDefault("briefing.corridor_tolerance", 1.15)
	v.SetDefault("briefing.corridor_max_count", 25)
	v.SetDefault("briefing.rate_limit_per_minute", 30)
	v.SetDefault("briefing.feature_flags_cache_ttl", time.Minute)

	v.SetDefault("worker.project_id", "")
	v.SetDefault("worker.subscription_id", "pilotbrief-jobs")
	v.SetDefault("worker.hub_airports", []string{"KSFO", "KLAX", "KSEA", "KDEN", "KORD", "KATL", "KDFW", "KJFK"})
	v.SetDefault("worker.max_concurrency", 4)
	v.SetDefault("worker.refresh_timeout", 2*time.Minute)
	v.SetDefault("worker.refresh_interval", 10*time.Minute)

	v.SetDefault("auth.signing_key", devSigningKey)
	v.SetDefault("auth.issuer", service)
}

// Load reads configuration for service.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The conventional key variable works without the prefix.
	if err := v.BindEnv("textgen.api_key", EnvPrefix+"_TEXTGEN_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Production reports whether the service runs in production.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// DevSigningKey reports whether the built-in development signing key is in use.
func (c *Config) DevSigningKey() bool {
	return c.Auth.SigningKey == devSigningKey
}

// Validate checks that configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server timeouts must be positive")
	}
	if c.Server.WriteTimeout <= c.Briefing.GenerationTimeout {
		errs = append(errs, "server.write_timeout must exceed briefing.generation_timeout")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, "telemetry.sample_ratio must be between 0 and 1")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.Database == "" {
			errs = append(errs, "database.dbname is required")
		}
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		errs = append(errs, "cache.addr is required when cache is enabled")
	}

	if c.Weather.BaseURL == "" {
		errs = append(errs, "weather.base_url is required")
	}
	if c.Weather.BatchSize <= 0 {
		errs = append(errs, "weather.batch_size must be positive")
	}

	if c.Briefing.GenerationTimeout <= 0 {
		errs = append(errs, "briefing.generation_timeout must be positive")
	}
	if c.Briefing.CruiseSpeedKT <= 0 {
		errs = append(errs, "briefing.cruise_speed_kt must be positive")
	}
	if c.Briefing.CorridorTolerance < 1 {
		errs = append(errs, "briefing.corridor_tolerance must be at least 1")
	}

	if c.Auth.SigningKey == "" {
		errs = append(errs, "auth.signing_key is required")
	}
	if c.Production() && c.DevSigningKey() {
		errs = append(errs, "auth.signing_key must be changed in production")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
