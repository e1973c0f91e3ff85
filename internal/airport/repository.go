package airport

import "context"

// Repository defines the interface for airport persistence.
type Repository interface {
	// Get retrieves an airport by code.
	Get(ctx context.Context, code string) (*Airport, error)

	// List returns every airport ordered by code.
	List(ctx context.Context) ([]Airport, error)

	// Upsert creates or replaces an airport.
	Upsert(ctx context.Context, airport *Airport) error
}
