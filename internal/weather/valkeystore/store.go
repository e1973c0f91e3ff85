// Package valkeystore shares cached observations between the API and worker
// through Valkey.
package valkeystore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// DefaultKeyPrefix namespaces observation keys.
const DefaultKeyPrefix = "pilotbrief:obs:"

// Store implements weather.Store using Valkey.
type Store struct {
	client valkey.Client
	prefix string
}

var _ weather.Store = (*Store)(nil)

// New connects to Valkey at addr.
func New(addr, prefix string) (*Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client valkey.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Key returns the cache key for an airport code.
func (s *Store) Key(code string) string {
	return s.prefix + code
}

// Get retrieves a cached observation.
func (s *Store) Get(ctx context.Context, code string) (*weather.ObservationRecord, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(s.Key(code)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, weather.ErrCacheMiss
		}
		return nil, fmt.Errorf("valkey get: %w", err)
	}

	var rec weather.ObservationRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decoding cached observation: %w", err)
	}
	return &rec, nil
}

// Set stores an observation with a TTL.
func (s *Store) Set(ctx context.Context, rec weather.ObservationRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding observation: %w", err)
	}

	cmd := s.client.B().Set().Key(s.Key(rec.Code)).Value(string(b)).Ex(ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Delete removes cached observations.
func (s *Store) Delete(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}

	keys := make([]string, len(codes))
	for i, c := range codes {
		keys[i] = s.Key(c)
	}
	return s.client.Do(ctx, s.client.B().Del().Key(keys...).Build()).Error()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (s *Store) Close() {
	s.client.Close()
}
