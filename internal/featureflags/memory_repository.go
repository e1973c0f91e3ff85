package featureflags

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository keeps flags in process. It backs the service when no
// database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	flags map[string]Flag
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository(initial ...*Flag) *InMemoryRepository {
	repo := &InMemoryRepository{flags: make(map[string]Flag, len(initial))}
	for _, f := range initial {
		if f != nil {
			repo.flags[f.Key] = *f
		}
	}
	return repo
}

// GetFlag returns a copy of the stored flag.
func (r *InMemoryRepository) GetFlag(_ context.Context, key string) (*Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flag, ok := r.flags[key]
	if !ok {
		return nil, ErrFlagNotFound
	}
	return &flag, nil
}

// GetAllFlags returns copies of every stored flag.
func (r *InMemoryRepository) GetAllFlags(_ context.Context) (map[string]*Flag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Flag, len(r.flags))
	for k, v := range r.flags {
		result[k] = &v
	}
	return result, nil
}

// SetFlags stores every flag under a single lock.
func (r *InMemoryRepository) SetFlags(_ context.Context, flags []*Flag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, flag := range flags {
		stored := *flag
		if stored.UpdatedAt.IsZero() {
			stored.UpdatedAt = now
		}
		r.flags[flag.Key] = stored
	}
	return nil
}

// DeleteFlag removes a feature flag by key.
func (r *InMemoryRepository) DeleteFlag(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.flags, key)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
