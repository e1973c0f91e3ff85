package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
	"github.com/AmeyaMprojects/pilot-brief/internal/worker"
)

// fakeRefresher reports every code as available unless listed in missing,
// and fails whole batches containing a code listed in failing.
type fakeRefresher struct {
	missing map[string]bool
	failing map[string]bool
	delay   time.Duration

	mu        sync.Mutex
	batches   [][]string
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func (f *fakeRefresher) Refresh(ctx context.Context, codes []string) (weather.Observations, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), codes...))
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	obs := make(weather.Observations, len(codes))
	for _, code := range codes {
		if f.failing[code] {
			return nil, errors.New("provider returned 503")
		}
		if f.missing[code] {
			obs[code] = weather.Unavailable(code, "no report", time.Now())
			continue
		}
		obs[code] = weather.ObservationRecord{Code: code, Status: weather.StatusSuccess, RawText: code + " 121756Z 00000KT 10SM CLR 15/05 A3000"}
	}
	return obs, nil
}

func TestDefaultRefreshConfig(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Contains(t, cfg.HubAirports, "KSFO")
}

func TestRefreshConfig_Batches(t *testing.T) {
	cfg := worker.RefreshConfig{HubAirports: []string{"A1", "A2", "A3", "A4", "A5"}, BatchSize: 2}

	assert.Equal(t, [][]string{{"A1", "A2"}, {"A3", "A4"}, {"A5"}}, cfg.Batches())
}

func TestRefreshJob_Run(t *testing.T) {
	refresher := &fakeRefresher{missing: map[string]bool{"KSEA": true}}
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			HubAirports: []string{"ksfo", "KLAX", "KSEA", "KSFO", " kden"},
			BatchSize:   2,
			Concurrency: 2,
		},
		Logger:    zerolog.Nop(),
		Refresher: refresher,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 4, result.TotalCodes)
	assert.Equal(t, 3, result.Available)
	assert.Equal(t, 1, result.Unavailable)
	assert.Empty(t, result.Errors)
	assert.True(t, result.Healthy())
	assert.Len(t, refresher.batches, 2)

	m := job.GetMetrics()
	assert.Equal(t, int64(1), m.TotalRuns)
	assert.Equal(t, int64(3), m.Refreshed)
	assert.Equal(t, int64(1), m.Unavailable)
	assert.False(t, m.LastRefreshAt.IsZero())
}

func TestRefreshJob_BoundsConcurrency(t *testing.T) {
	refresher := &fakeRefresher{delay: 20 * time.Millisecond}
	codes := []string{"K001", "K002", "K003", "K004", "K005", "K006", "K007", "K008"}
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: codes, BatchSize: 1, Concurrency: 3},
		Logger:    zerolog.Nop(),
		Refresher: refresher,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 8, result.Available)
	assert.LessOrEqual(t, refresher.maxFlight.Load(), int32(3))
	assert.Len(t, refresher.batches, 8)
}

func TestRefreshJob_FailedBatchDoesNotStopOthers(t *testing.T) {
	refresher := &fakeRefresher{failing: map[string]bool{"KLAX": true}}
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: []string{"KSFO", "KLAX", "KDEN", "KORD"}, BatchSize: 2},
		Logger:    zerolog.Nop(),
		Refresher: refresher,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 2, result.Available)
	assert.Equal(t, 2, result.Unavailable)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, []string{"KSFO", "KLAX"}, result.Errors[0].Codes)
	assert.True(t, result.Healthy())
	assert.Equal(t, int64(1), job.GetMetrics().FailedBatches)
}

func TestRefreshJob_BatchTimeout(t *testing.T) {
	refresher := &fakeRefresher{delay: time.Second}
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: []string{"KSFO"}, Timeout: 10 * time.Millisecond},
		Logger:    zerolog.Nop(),
		Refresher: refresher,
	})

	result := job.Run(context.Background())

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, context.DeadlineExceeded.Error())
	assert.False(t, result.Healthy())
}

func TestRefreshJob_NoRefresher(t *testing.T) {
	job := worker.NewRefreshJob(worker.RefreshJobConfig{Logger: zerolog.Nop()})

	result := job.Run(context.Background())

	assert.Equal(t, len(worker.DefaultHubAirports()), result.TotalCodes)
	assert.Zero(t, result.Available)
	assert.False(t, result.Healthy())
}

func TestRefreshJob_HealthCheck(t *testing.T) {
	ok := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: []string{"KSFO", "KLAX"}},
		Logger:    zerolog.Nop(),
		Refresher: &fakeRefresher{},
	})
	require.NoError(t, ok.HealthCheck(context.Background()))

	missing := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: []string{"KSFO"}},
		Logger:    zerolog.Nop(),
		Refresher: &fakeRefresher{missing: map[string]bool{"KSFO": true}},
	})
	assert.ErrorContains(t, missing.HealthCheck(context.Background()), "no report for KSFO")
}

func TestRefreshJob_MetricsSnapshot(t *testing.T) {
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    worker.RefreshConfig{HubAirports: []string{"KSFO"}},
		Logger:    zerolog.Nop(),
		Refresher: &fakeRefresher{},
	})
	job.Run(context.Background())

	snapshot := job.MetricsSnapshot()
	assert.Equal(t, int64(1), snapshot["total_runs"])
	assert.Equal(t, int64(1), snapshot["refreshed"])
	assert.Contains(t, snapshot, "last_duration")
}
