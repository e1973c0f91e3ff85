package weather

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a test double for Provider.
type mockProvider struct {
	mu        sync.Mutex
	reports   map[string]string
	err       error
	delay     time.Duration
	callCount atomic.Int32
	batches   [][]string
}

func (m *mockProvider) Observations(ctx context.Context, codes []string) (Observations, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), codes...))
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}

	out := make(Observations)
	for _, c := range codes {
		if raw, ok := m.reports[c]; ok {
			out[c] = ObservationRecord{Status: StatusSuccess, RawText: raw}
		}
	}
	return out, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

// memoryStore is an in-process Store.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]ObservationRecord
	gets    atomic.Int32
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]ObservationRecord)}
}

func (m *memoryStore) Get(_ context.Context, code string) (*ObservationRecord, error) {
	m.gets.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[code]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &rec, nil
}

func (m *memoryStore) Set(_ context.Context, rec ObservationRecord, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Code] = rec
	return nil
}

func (m *memoryStore) Delete(_ context.Context, codes ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range codes {
		delete(m.records, c)
	}
	return nil
}

var testReports = map[string]string{
	"KSFO": "KSFO 121756Z 28015KT 10SM FEW008 18/12 A3002",
	"KSJC": "KSJC 121753Z 31008KT 10SM CLR 21/09 A3001",
	"KLAX": "KLAX 121753Z 25010KT 10SM SCT020 20/14 A2998",
}

func TestService_ForRouteReturnsFullSet(t *testing.T) {
	provider := &mockProvider{reports: testReports}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	obs, err := svc.ForRoute(context.Background(), []string{"KSFO", "KSJC", "KLAX", "KXYZ"})
	require.NoError(t, err)

	require.Len(t, obs, 4)
	assert.True(t, obs.Complete([]string{"KSFO", "KSJC", "KLAX", "KXYZ"}))
	assert.True(t, obs["KSFO"].Available())
	assert.Contains(t, obs["KSFO"].ParsedText, "Weather report for KSFO")
	assert.Equal(t, "KSFO", obs["KSFO"].Code)
	assert.False(t, obs["KSFO"].FetchedAt.IsZero())

	assert.Equal(t, StatusError, obs["KXYZ"].Status)
	assert.Equal(t, "no observation reported", obs["KXYZ"].ErrorDetail)
}

func TestService_CachesObservations(t *testing.T) {
	provider := &mockProvider{reports: testReports}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.ForRoute(context.Background(), []string{"KSFO", "KLAX"})
	require.NoError(t, err)
	_, err = svc.ForRoute(context.Background(), []string{"KLAX", "KSFO"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), provider.callCount.Load())

	_, err = svc.Refresh(context.Background(), []string{"KSFO"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.callCount.Load())
}

func TestService_ErrorRecordsAreNotCached(t *testing.T) {
	provider := &mockProvider{reports: testReports}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.ForRoute(context.Background(), []string{"KXYZ", "KSFO"})
	require.NoError(t, err)
	_, err = svc.ForRoute(context.Background(), []string{"KXYZ"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), provider.callCount.Load())
}

func TestService_BatchesRequests(t *testing.T) {
	provider := &mockProvider{reports: map[string]string{}}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop(), BatchSize: 2, MaxConcurrency: 2})

	codes := []string{"KAAA", "KBBB", "KCCC", "KDDD", "KEEE"}
	obs, err := svc.ForRoute(context.Background(), codes)
	require.NoError(t, err)
	assert.Len(t, obs, 5)
	assert.Equal(t, int32(3), provider.callCount.Load())

	var seen []string
	for _, b := range provider.batches {
		assert.LessOrEqual(t, len(b), 2)
		seen = append(seen, b...)
	}
	sort.Strings(seen)
	assert.Equal(t, codes, seen)
}

func TestService_ProviderErrorBecomesUnavailable(t *testing.T) {
	provider := &mockProvider{err: errors.New("upstream down")}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	obs, err := svc.ForRoute(context.Background(), []string{"KSFO", "KLAX"})
	require.NoError(t, err)

	require.Len(t, obs, 2)
	for _, rec := range obs {
		assert.Equal(t, StatusError, rec.Status)
		assert.Equal(t, ErrProviderUnavailable.Error(), rec.ErrorDetail)
	}
}

func TestService_StaleIfError(t *testing.T) {
	provider := &mockProvider{reports: testReports}
	svc := NewService(ServiceConfig{
		Provider:        provider,
		Logger:          zerolog.Nop(),
		CacheTTL:        time.Millisecond,
		StaleIfErrorTTL: time.Hour,
	})

	_, err := svc.ForRoute(context.Background(), []string{"KSFO"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	provider.err = errors.New("upstream down")

	obs, err := svc.ForRoute(context.Background(), []string{"KSFO"})
	require.NoError(t, err)
	assert.True(t, obs["KSFO"].Available())
	assert.Equal(t, int32(2), provider.callCount.Load())
}

func TestService_SharedStore(t *testing.T) {
	store := newMemoryStore()
	first := NewService(ServiceConfig{Provider: &mockProvider{reports: testReports}, Store: store, Logger: zerolog.Nop()})

	_, err := first.ForRoute(context.Background(), []string{"KSJC"})
	require.NoError(t, err)

	secondProvider := &mockProvider{reports: testReports}
	second := NewService(ServiceConfig{Provider: secondProvider, Store: store, Logger: zerolog.Nop()})

	obs, err := second.ForRoute(context.Background(), []string{"KSJC"})
	require.NoError(t, err)
	assert.True(t, obs["KSJC"].Available())
	assert.Equal(t, int32(0), secondProvider.callCount.Load())

	require.NoError(t, second.Invalidate(context.Background(), "KSJC"))
	_, err = store.Get(context.Background(), "KSJC")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestService_InvalidateAll(t *testing.T) {
	provider := &mockProvider{reports: testReports}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	_, err := svc.ForRoute(context.Background(), []string{"KSFO", "KLAX"})
	require.NoError(t, err)
	assert.Equal(t, 2, svc.CacheStats().Entries)

	require.NoError(t, svc.Invalidate(context.Background()))
	assert.Equal(t, 0, svc.CacheStats().Entries)
}

func TestService_NoCodes(t *testing.T) {
	svc := NewService(ServiceConfig{Provider: &mockProvider{}, Logger: zerolog.Nop()})

	_, err := svc.ForRoute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCodes)
}

func TestService_ContextCancelled(t *testing.T) {
	provider := &mockProvider{reports: testReports, delay: time.Second}
	svc := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	obs, err := svc.ForRoute(ctx, []string{"KSFO"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, obs)
}

func TestSummarize(t *testing.T) {
	obs := Observations{
		"KSFO": {Status: StatusSuccess, RawText: "x"},
		"KSJC": {Status: StatusError, ErrorDetail: "timeout"},
		"KLAX": {Status: StatusSuccess},
	}

	s := Summarize([]string{"KSFO", "KSJC", "KLAX", "KJFK"}, obs)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Available)
	assert.Equal(t, 3, s.Unavailable)
	assert.InDelta(t, 25.0, s.SuccessRate, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil, obs))
}

func TestObservationRecord_Text(t *testing.T) {
	assert.Equal(t, "parsed", ObservationRecord{RawText: "raw", ParsedText: "parsed"}.Text())
	assert.Equal(t, "raw", ObservationRecord{RawText: "raw"}.Text())
}

func TestObservationRecord_AvailableNeedsText(t *testing.T) {
	assert.True(t, ObservationRecord{Status: StatusSuccess, RawText: "KSFO 121756Z"}.Available())
	assert.True(t, ObservationRecord{Status: StatusSuccess, ParsedText: "Weather report for KSFO"}.Available())
	assert.False(t, ObservationRecord{Status: StatusSuccess}.Available())
	assert.False(t, ObservationRecord{Status: StatusError, RawText: "stale"}.Available())
}

func TestObservations_Missing(t *testing.T) {
	obs := Observations{
		"KSFO": {Status: StatusSuccess, RawText: "x"},
		"KLAX": {Status: StatusError},
	}

	assert.Equal(t, []string{"KSJC", "KJFK"}, obs.Missing([]string{"KSFO", "KSJC", "KLAX", "KJFK"}))
	assert.False(t, obs.Complete([]string{"KSFO", "KSJC"}))
	assert.True(t, obs.Complete([]string{"KLAX", "KSFO"}))
	assert.Empty(t, obs.Missing(nil))
}
