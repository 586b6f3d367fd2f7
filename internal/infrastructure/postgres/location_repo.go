package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) FindByName(ctx context.Context, name string) (*domain.Location, error) {
	query := `SELECT id, name, country, latitude, longitude, admin1, timezone
		FROM locations WHERE name ILIKE $1 LIMIT 1`

	row := r.pool.QueryRow(ctx, query, "%"+name+"%")
	var loc domain.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Country, &loc.Latitude, &loc.Longitude, &loc.Admin1, &loc.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return &loc, nil
}

func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	query := `INSERT INTO locations (name, country, latitude, longitude, admin1, timezone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		loc.Name, loc.Country, loc.Latitude, loc.Longitude, loc.Admin1, loc.Timezone,
	).Scan(&loc.ID)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return loc, nil
}
