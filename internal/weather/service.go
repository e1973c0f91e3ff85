package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/AmeyaMprojects/pilot-brief/internal/weather/metar"
)

// Provider fetches observations for a batch of airport codes.
// Codes missing from the returned map are treated as unavailable.
type Provider interface {
	Observations(ctx context.Context, codes []string) (Observations, error)

	// Name returns the provider name for logging.
	Name() string
}

// Store is a cache shared between processes.
type Store interface {
	// Get returns ErrCacheMiss when the code is not cached.
	Get(ctx context.Context, code string) (*ObservationRecord, error)
	Set(ctx context.Context, rec ObservationRecord, ttl time.Duration) error
	Delete(ctx context.Context, codes ...string) error
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the observation source.
	Provider Provider

	// Store is an optional shared cache consulted after the local cache.
	Store Store

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long observations are reused (default: 10 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 2 hours).
	StaleIfErrorTTL time.Duration

	// BatchSize is the number of codes per provider call (default: 10).
	BatchSize int

	// MaxConcurrency bounds concurrent provider calls (default: 4).
	MaxConcurrency int
}

// Service provides observations with caching.
type Service struct {
	provider        Provider
	store           Store
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	batchSize       int
	maxConcurrency  int

	mu    sync.RWMutex
	cache map[string]*cachedRecord
}

type cachedRecord struct {
	record    ObservationRecord
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 2 * time.Hour
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}

	return &Service{
		provider:        cfg.Provider,
		store:           cfg.Store,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		batchSize:       batchSize,
		maxConcurrency:  maxConcurrency,
		cache:           make(map[string]*cachedRecord),
	}
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// ForRoute returns a record for every code. It only returns once the full
// set is known; provider failures become error records, never partial maps.
// The only errors are ErrNoCodes and context cancellation.
func (s *Service) ForRoute(ctx context.Context, codes []string) (Observations, error) {
	return s.gather(ctx, codes, false)
}

// Refresh fetches every code from the provider, bypassing fresh cache entries.
func (s *Service) Refresh(ctx context.Context, codes []string) (Observations, error) {
	return s.gather(ctx, codes, true)
}

func (s *Service) gather(ctx context.Context, codes []string, force bool) (Observations, error) {
	codes = dedupe(codes)
	if len(codes) == 0 {
		return nil, ErrNoCodes
	}

	result := make(Observations, len(codes))
	var missing []string

	for _, code := range codes {
		if !force {
			if rec, ok := s.cached(ctx, code); ok {
				result[code] = rec
				continue
			}
		}
		missing = append(missing, code)
	}

	if len(missing) == 0 {
		return result, nil
	}

	var resultMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for start := 0; start < len(missing); start += s.batchSize {
		end := min(start+s.batchSize, len(missing))
		batch := missing[start:end]

		g.Go(func() error {
			records := s.fetchBatch(gctx, batch)
			if err := gctx.Err(); err != nil {
				return err
			}

			resultMu.Lock()
			for code, rec := range records {
				result[code] = rec
			}
			resultMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// fetchBatch calls the provider and returns a record for every code in batch.
func (s *Service) fetchBatch(ctx context.Context, batch []string) Observations {
	s.logger.Debug().
		Strs("codes", batch).
		Str("provider", s.provider.Name()).
		Msg("fetching observations from provider")

	fetched, err := s.provider.Observations(ctx, batch)
	now := time.Now().UTC()
	out := make(Observations, len(batch))

	if err != nil {
		s.logger.Error().Err(err).Strs("codes", batch).Msg("failed to fetch observations")

		for _, code := range batch {
			if stale, ok := s.stale(code); ok {
				s.logger.Warn().
					Str("code", code).
					Time("fetched_at", stale.FetchedAt).
					Msg("serving stale observation due to provider error")
				out[code] = stale
				continue
			}
			out[code] = Unavailable(code, ErrProviderUnavailable.Error(), now)
		}
		return out
	}

	for _, code := range batch {
		rec, ok := fetched[code]
		if !ok {
			out[code] = Unavailable(code, "no observation reported", now)
			continue
		}

		rec.Code = code
		if rec.FetchedAt.IsZero() {
			rec.FetchedAt = now
		}
		if rec.Status == StatusSuccess && rec.ParsedText == "" && rec.RawText != "" {
			rec.ParsedText = metar.Decode(rec.RawText)
		}

		if rec.Available() {
			s.put(ctx, rec)
		}
		out[code] = rec
	}

	return out
}

// cached returns a fresh record from the local cache, then the shared store.
func (s *Service) cached(ctx context.Context, code string) (ObservationRecord, bool) {
	s.mu.RLock()
	entry, ok := s.cache[code]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.record, true
	}

	if s.store == nil {
		return ObservationRecord{}, false
	}

	rec, err := s.store.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("code", code).Msg("shared observation cache read failed")
		}
		return ObservationRecord{}, false
	}

	s.mu.Lock()
	s.cache[code] = &cachedRecord{record: *rec, expiresAt: rec.FetchedAt.Add(s.cacheTTL)}
	s.mu.Unlock()

	return *rec, true
}

func (s *Service) stale(code string) (ObservationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[code]
	if !ok || time.Now().After(entry.record.FetchedAt.Add(s.staleIfErrorTTL)) {
		return ObservationRecord{}, false
	}
	return entry.record, true
}

func (s *Service) put(ctx context.Context, rec ObservationRecord) {
	s.mu.Lock()
	s.cache[rec.Code] = &cachedRecord{record: rec, expiresAt: time.Now().Add(s.cacheTTL)}
	s.cleanupLocked()
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Set(ctx, rec, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("code", rec.Code).Msg("shared observation cache write failed")
		}
	}
}

// cleanupLocked drops entries too old to serve even as stale data.
func (s *Service) cleanupLocked() {
	now := time.Now()
	for code, entry := range s.cache {
		if now.After(entry.record.FetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, code)
		}
	}
}

// Invalidate drops cached records for codes, or every record when codes is empty.
func (s *Service) Invalidate(ctx context.Context, codes ...string) error {
	s.mu.Lock()
	if len(codes) == 0 {
		codes = make([]string, 0, len(s.cache))
		for code := range s.cache {
			codes = append(codes, code)
		}
		s.cache = make(map[string]*cachedRecord)
	} else {
		for _, code := range codes {
			delete(s.cache, code)
		}
	}
	s.mu.Unlock()

	if s.store != nil && len(codes) > 0 {
		return s.store.Delete(ctx, codes...)
	}
	return nil
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	for _, entry := range s.cache {
		if now.Before(entry.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		Entries:      len(s.cache),
		FreshEntries: fresh,
		Provider:     s.provider.Name(),
		SharedStore:  s.store != nil,
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries      int
	FreshEntries int
	Provider     string
	SharedStore  bool
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
