package airport

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL airport repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an airport by code.
func (r *PostgresRepository) Get(ctx context.Context, code string) (*Airport, error) {
	query := `
		SELECT icao_code, name, latitude, longitude, updated_at
		FROM airports
		WHERE icao_code = $1
	`

	var a Airport
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&a.Code,
		&a.Name,
		&a.Coordinate.Lat,
		&a.Coordinate.Lng,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAirportNotFound
		}
		return nil, fmt.Errorf("query airport: %w", err)
	}

	return &a, nil
}

// List returns every airport ordered by code.
func (r *PostgresRepository) List(ctx context.Context) ([]Airport, error) {
	query := `
		SELECT icao_code, name, latitude, longitude, updated_at
		FROM airports
		ORDER BY icao_code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query airports: %w", err)
	}
	defer rows.Close()

	var airports []Airport
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.Code, &a.Name, &a.Coordinate.Lat, &a.Coordinate.Lng, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		airports = append(airports, a)
	}

	return airports, rows.Err()
}

// Upsert creates or replaces an airport.
func (r *PostgresRepository) Upsert(ctx context.Context, airport *Airport) error {
	if err := airport.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO airports (icao_code, name, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (icao_code) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, airport.Code, airport.Name, airport.Coordinate.Lat, airport.Coordinate.Lng)
	if err != nil {
		return fmt.Errorf("upsert airport: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts the built-in airports when the table is empty.
// It returns the number of rows inserted.
func (r *PostgresRepository) SeedIfEmpty(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM airports`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count airports: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, a := range seedAirports {
		batch.Queue(
			`INSERT INTO airports (icao_code, name, latitude, longitude, updated_at)
			 VALUES ($1, $2, $3, $4, NOW()) ON CONFLICT (icao_code) DO NOTHING`,
			a.Code, a.Name, a.Coordinate.Lat, a.Coordinate.Lng,
		)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("seed airports: %w", err)
	}
	return len(seedAirports), nil
}
