package featureflags

import (
	"context"
	"errors"
)

var (
	// ErrFlagNotFound is returned when a feature flag is not stored.
	ErrFlagNotFound = errors.New("feature flag not found")

	// ErrInvalidUpdate is returned when an update request fails validation.
	ErrInvalidUpdate = errors.New("invalid feature flag update")
)

// Repository defines the interface for feature flag storage.
type Repository interface {
	GetFlag(ctx context.Context, key string) (*Flag, error)
	GetAllFlags(ctx context.Context) (map[string]*Flag, error)

	// SetFlags creates or updates multiple feature flags atomically.
	SetFlags(ctx context.Context, flags []*Flag) error

	DeleteFlag(ctx context.Context, key string) error
}
