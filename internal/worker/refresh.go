package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// Refresher fetches observations bypassing fresh cache entries.
type Refresher interface {
	Refresh(ctx context.Context, codes []string) (weather.Observations, error)
}

// RefreshJob warms the observation cache for hub airports.
type RefreshJob struct {
	config    RefreshConfig
	logger    zerolog.Logger
	refresher Refresher

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns     int64
	Refreshed     int64
	Unavailable   int64
	FailedBatches int64
	LastRefreshAt time.Time
	LastDuration  time.Duration
	TotalDuration time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config    RefreshConfig
	Logger    zerolog.Logger
	Refresher Refresher
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:    cfg.Config.withDefaults(),
		logger:    cfg.Logger,
		refresher: cfg.Refresher,
		metrics:   &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalCodes  int
	Available   int
	Unavailable int
	Errors      []RefreshError
}

// RefreshError records a batch that failed outright.
type RefreshError struct {
	Codes []string
	Error string
}

// Healthy reports whether at least half of the codes refreshed.
func (r *RefreshResult) Healthy() bool {
	return r.TotalCodes > 0 && r.Available*2 >= r.TotalCodes
}

// Run refreshes the configured hub airports.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	return j.RunCodes(ctx, j.config.HubAirports)
}

// RunCodes refreshes codes in batches, at most Concurrency batches at a time.
// A failed batch does not stop the others.
func (j *RefreshJob) RunCodes(ctx context.Context, codes []string) *RefreshResult {
	codes = normalizeCodes(codes)
	result := &RefreshResult{
		StartTime:  time.Now(),
		TotalCodes: len(codes),
	}

	j.logger.Info().
		Int("total_codes", result.TotalCodes).
		Int("concurrency", j.config.Concurrency).
		Msg("starting observation refresh job")

	if j.refresher == nil {
		result.Unavailable = len(codes)
		result.Errors = append(result.Errors, RefreshError{Codes: codes, Error: "no refresher configured"})
		j.finish(result)
		return result
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Concurrency)

	for _, b := range batch(codes, j.config.BatchSize) {
		g.Go(func() error {
			available, err := j.refreshBatch(gctx, b)

			mu.Lock()
			defer mu.Unlock()
			result.Available += available
			result.Unavailable += len(b) - available
			if err != nil {
				result.Errors = append(result.Errors, RefreshError{Codes: b, Error: err.Error()})
			}
			// Batch failures are recorded, not propagated, so gctx stays live.
			return nil
		})
	}
	_ = g.Wait()

	j.finish(result)
	return result
}

func (j *RefreshJob) refreshBatch(ctx context.Context, codes []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	obs, err := j.refresher.Refresh(ctx, codes)
	if err != nil {
		j.logger.Warn().Err(err).Strs("codes", codes).Msg("batch refresh failed")
		return 0, err
	}

	available := 0
	for _, code := range codes {
		if rec, ok := obs[code]; ok && rec.Available() {
			available++
		}
	}
	return available, nil
}

func (j *RefreshJob) finish(result *RefreshResult) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("available", result.Available).
		Int("unavailable", result.Unavailable).
		Int("failed_batches", len(result.Errors)).
		Msg("observation refresh job completed")
}

// HealthCheck refreshes the first hub airport to verify provider connectivity.
func (j *RefreshJob) HealthCheck(ctx context.Context) error {
	if len(j.config.HubAirports) == 0 {
		return errors.New("no hub airports configured")
	}
	sample := j.config.HubAirports[:1]

	result := j.RunCodes(ctx, sample)
	if len(result.Errors) > 0 {
		return fmt.Errorf("health check failed: %s", result.Errors[0].Error)
	}
	if result.Available == 0 {
		return fmt.Errorf("health check failed: no report for %s", sample[0])
	}
	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.Refreshed += int64(result.Available)
	j.metrics.Unavailable += int64(result.Unavailable)
	j.metrics.FailedBatches += int64(len(result.Errors))
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:     j.metrics.TotalRuns,
		Refreshed:     j.metrics.Refreshed,
		Unavailable:   j.metrics.Unavailable,
		FailedBatches: j.metrics.FailedBatches,
		LastRefreshAt: j.metrics.LastRefreshAt,
		LastDuration:  j.metrics.LastDuration,
		TotalDuration: j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]any {
	m := j.GetMetrics()
	return map[string]any{
		"total_runs":      m.TotalRuns,
		"refreshed":       m.Refreshed,
		"unavailable":     m.Unavailable,
		"failed_batches":  m.FailedBatches,
		"last_refresh_at": m.LastRefreshAt,
		"last_duration":   m.LastDuration.String(),
		"total_duration":  m.TotalDuration.String(),
	}
}
