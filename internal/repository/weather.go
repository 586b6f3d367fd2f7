package repository

import (
	"context"
	"time"

	"github.com/gefest173/meteora/internal/domain"
)

type LocationRepository interface {
	// FindByName matches case-insensitively and returns
	// domain.ErrLocationNotFound when no row matches.
	FindByName(ctx context.Context, name string) (*domain.Location, error)
	Create(ctx context.Context, loc *domain.Location) (*domain.Location, error)
}

type SearchHistoryRepository interface {
	// Record inserts a history row or bumps search_count and last_searched
	// for an existing (user, location) pair, then prunes the user's history
	// down to the newest maxItems entries.
	Record(ctx context.Context, userID, locationID int64, cityName string, maxItems int) error
	ListByUser(ctx context.Context, userID int64) ([]domain.SearchHistory, error)
	// Delete returns domain.ErrHistoryNotFound when the record does not
	// exist or belongs to a different user.
	Delete(ctx context.Context, recordID, userID int64) error
}

// ReportCache holds shaped weather reports with a TTL.
type ReportCache interface {
	GetReport(ctx context.Context, locationID int64) (*domain.WeatherReport, error)
	SetReport(ctx context.Context, locationID int64, report *domain.WeatherReport, ttl time.Duration) error
}
