package airport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
)

// ServiceConfig holds configuration for the airport directory.
type ServiceConfig struct {
	// Repository is the airport store.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long directory reads are cached (default: 1 hour).
	CacheTTL time.Duration
}

// Directory resolves airport codes with a read-through cache.
// It implements route.Lookup and route.CandidateSource.
type Directory struct {
	repo     Repository
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu        sync.RWMutex
	byCode    map[string]*cachedAirport
	all       []Airport
	allExpiry time.Time
}

type cachedAirport struct {
	airport   *Airport
	expiresAt time.Time
}

var (
	_ route.Lookup          = (*Directory)(nil)
	_ route.CandidateSource = (*Directory)(nil)
)

// NewDirectory creates a new airport directory.
func NewDirectory(cfg ServiceConfig) *Directory {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	repo := cfg.Repository
	if repo == nil {
		repo = NewSeededRepository()
	}

	return &Directory{
		repo:     repo,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		byCode:   make(map[string]*cachedAirport),
	}
}

// Get returns the airport for a code. Codes are normalized first.
func (d *Directory) Get(ctx context.Context, code string) (*Airport, error) {
	code = route.NormalizeCode(code)
	if !ValidCode(code) {
		return nil, ErrInvalidCode
	}

	d.mu.RLock()
	if cached, ok := d.byCode[code]; ok && time.Now().Before(cached.expiresAt) {
		d.mu.RUnlock()
		if cached.airport == nil {
			return nil, ErrAirportNotFound
		}
		a := *cached.airport
		return &a, nil
	}
	d.mu.RUnlock()

	a, err := d.repo.Get(ctx, code)
	if err != nil && !errors.Is(err, ErrAirportNotFound) {
		d.logger.Error().Err(err).Str("code", code).Msg("failed to load airport")
		return nil, err
	}

	d.mu.Lock()
	d.byCode[code] = &cachedAirport{airport: a, expiresAt: time.Now().Add(d.cacheTTL)}
	d.mu.Unlock()

	if a == nil {
		return nil, ErrAirportNotFound
	}
	out := *a
	return &out, nil
}

// List returns every airport in the directory.
func (d *Directory) List(ctx context.Context) ([]Airport, error) {
	d.mu.RLock()
	if d.all != nil && time.Now().Before(d.allExpiry) {
		out := make([]Airport, len(d.all))
		copy(out, d.all)
		d.mu.RUnlock()
		return out, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	// Double-check cache
	if d.all != nil && time.Now().Before(d.allExpiry) {
		out := make([]Airport, len(d.all))
		copy(out, d.all)
		return out, nil
	}

	airports, err := d.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing airports: %w", err)
	}

	d.all = airports
	d.allExpiry = time.Now().Add(d.cacheTTL)

	d.logger.Debug().Int("count", len(airports)).Msg("loaded airport directory")

	out := make([]Airport, len(airports))
	copy(out, airports)
	return out, nil
}

// Lookup implements route.Lookup.
func (d *Directory) Lookup(ctx context.Context, code string) (route.Location, error) {
	a, err := d.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrAirportNotFound) || errors.Is(err, ErrInvalidCode) {
			return route.Location{}, fmt.Errorf("%w: %s", route.ErrLocationNotFound, code)
		}
		return route.Location{}, err
	}
	return route.Location{Name: a.Name, Coordinate: a.Coordinate}, nil
}

// Candidates implements route.CandidateSource.
func (d *Directory) Candidates(ctx context.Context) ([]route.Candidate, error) {
	airports, err := d.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]route.Candidate, len(airports))
	for i, a := range airports {
		out[i] = route.Candidate{Code: a.Code, Name: a.Name, Coordinate: a.Coordinate}
	}
	return out, nil
}

// Upsert stores an airport and drops cached reads.
func (d *Directory) Upsert(ctx context.Context, a *Airport) error {
	a.Code = route.NormalizeCode(a.Code)
	if err := d.repo.Upsert(ctx, a); err != nil {
		return err
	}
	d.Invalidate()
	return nil
}

// Invalidate clears all cached directory reads.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byCode = make(map[string]*cachedAirport)
	d.all = nil
}
