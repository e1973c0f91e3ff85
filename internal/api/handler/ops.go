// Package handler provides HTTP handlers for the pilot-brief API.
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/response"
	"github.com/AmeyaMprojects/pilot-brief/internal/briefing"
	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderHealthSource reports upstream breaker health.
type ProviderHealthSource interface {
	GetAllHealth() []*resilience.ProviderHealth
}

// CoalescerStatsSource reports summary coalescing counters.
type CoalescerStatsSource interface {
	CoalescerStats() briefing.CoalescerStats
}

// CacheStatsSource reports observation cache counters.
type CacheStatsSource interface {
	CacheStats() weather.CacheStats
}

// FlagReader reads current feature flag values.
type FlagReader interface {
	IsEnabled(ctx context.Context, key string) bool
}

// OpsConfig holds the dependencies of the ops endpoints. Every field except
// the version strings is optional.
type OpsConfig struct {
	Version   string
	BuildTime string
	Database  Pinger
	Providers ProviderHealthSource
	Briefings CoalescerStatsSource
	Weather   CacheStatsSource
	Flags     FlagReader
}

// degradationFlags are reported by the status endpoint when enabled.
var degradationFlags = []string{
	briefing.FlagDisableAISummary,
	briefing.FlagCompactOnly,
}

const readyTimeout = 2 * time.Second

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. Without a database the service
// runs on the built-in airport list and is always ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.cfg.Database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.cfg.Database.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]any{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
		health.Details = map[string]any{"database": "ok"}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(time.Now()),
		Subsystems: h.subsystems(ctx),
		Providers:  h.providers(),
	}

	if h.cfg.Briefings != nil {
		stats := h.cfg.Briefings.CoalescerStats()
		status.Briefings.SummariesStarted = stats.Started
		status.Briefings.SummariesCoalesced = stats.Coalesced
		status.Briefings.SummaryInFlight = stats.InFlight
	}
	if h.cfg.Weather != nil {
		stats := h.cfg.Weather.CacheStats()
		status.Briefings.CachedObservations = stats.Entries
		status.Briefings.FreshObservations = stats.FreshEntries
	}
	if h.cfg.Flags != nil {
		for _, key := range degradationFlags {
			if h.cfg.Flags.IsEnabled(ctx, key) {
				status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, key)
			}
		}
	}

	for _, s := range status.Subsystems {
		status.Status = worst(status.Status, s.Status)
	}
	for _, p := range status.Providers {
		status.Status = worst(status.Status, p.Status)
	}
	if len(status.ActiveDegradationFlags) > 0 {
		status.Status = worst(status.Status, models.HealthStatusDegraded)
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) subsystems(ctx context.Context) []models.SubsystemStatus {
	var out []models.SubsystemStatus

	if h.cfg.Database != nil {
		pingCtx, cancel := context.WithTimeout(ctx, readyTimeout)
		defer cancel()
		s := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
		if err := h.cfg.Database.Ping(pingCtx); err != nil {
			detail := err.Error()
			s.Status = models.HealthStatusFail
			s.Detail = &detail
		}
		out = append(out, s)
	}

	if h.cfg.Weather != nil {
		stats := h.cfg.Weather.CacheStats()
		detail := "in-process cache only"
		if stats.SharedStore {
			detail = "shared cache enabled"
		}
		out = append(out, models.SubsystemStatus{Name: "observation-cache", Status: models.HealthStatusOK, Detail: &detail})
	}
	return out
}

func (h *OpsHandler) providers() []models.ProviderStatus {
	if h.cfg.Providers == nil {
		return []models.ProviderStatus{}
	}

	all := h.cfg.Providers.GetAllHealth()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	out := make([]models.ProviderStatus, 0, len(all))
	for _, p := range all {
		ps := models.ProviderStatus{
			Provider:      p.Name,
			Status:        providerStatus(p),
			CircuitState:  p.CircuitState.String(),
			LastSuccessAt: models.TimestampPtr(p.LastSuccessAt),
			LastFailureAt: models.TimestampPtr(p.LastFailureAt),
			CircuitTrips:  p.Trips,
		}
		if p.LastTransition != nil {
			ps.LastChangeAt = models.TimestampPtr(&p.LastTransition.At)
		}
		if p.LastError != "" {
			msg := p.LastError
			ps.Message = &msg
		}
		out = append(out, ps)
	}
	return out
}

func providerStatus(p *resilience.ProviderHealth) models.HealthStatus {
	switch p.CircuitState {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

var severity = map[models.HealthStatus]int{
	models.HealthStatusOK:       0,
	models.HealthStatusDegraded: 1,
	models.HealthStatusFail:     2,
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	if severity[b] > severity[a] {
		return b
	}
	return a
}
