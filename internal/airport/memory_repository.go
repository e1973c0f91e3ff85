package airport

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	airports map[string]Airport
}

// NewInMemoryRepository creates a repository holding the given airports.
func NewInMemoryRepository(airports ...Airport) *InMemoryRepository {
	r := &InMemoryRepository{airports: make(map[string]Airport, len(airports))}
	for _, a := range airports {
		r.airports[a.Code] = a
	}
	return r
}

// NewSeededRepository creates an in-memory repository with the built-in airports.
func NewSeededRepository() *InMemoryRepository {
	return NewInMemoryRepository(seedAirports...)
}

// Get retrieves an airport by code.
func (r *InMemoryRepository) Get(_ context.Context, code string) (*Airport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.airports[code]
	if !ok {
		return nil, ErrAirportNotFound
	}
	return &a, nil
}

// List returns every airport ordered by code.
func (r *InMemoryRepository) List(_ context.Context) ([]Airport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Airport, 0, len(r.airports))
	for _, a := range r.airports {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Upsert creates or replaces an airport.
func (r *InMemoryRepository) Upsert(_ context.Context, airport *Airport) error {
	if err := airport.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := *airport
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}
	r.airports[a.Code] = a
	return nil
}
