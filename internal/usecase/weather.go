package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/gefest173/meteora/internal/metrics"
	"github.com/gefest173/meteora/internal/repository"
)

// Upstream is the weather collaborator contract, satisfied by
// weather.Client.
type Upstream interface {
	Geocode(ctx context.Context, name string) (*domain.Location, error)
	Fetch(ctx context.Context, loc *domain.Location) (*domain.WeatherReport, error)
}

type WeatherUsecase struct {
	upstream Upstream
	locRepo  repository.LocationRepository
	history  repository.SearchHistoryRepository
	cache    repository.ReportCache

	cacheTTL        time.Duration
	maxHistoryItems int
}

func NewWeatherUsecase(
	upstream Upstream,
	locRepo repository.LocationRepository,
	history repository.SearchHistoryRepository,
	cache repository.ReportCache,
	cacheTTL time.Duration,
	maxHistoryItems int,
) *WeatherUsecase {
	return &WeatherUsecase{
		upstream:        upstream,
		locRepo:         locRepo,
		history:         history,
		cache:           cache,
		cacheTTL:        cacheTTL,
		maxHistoryItems: maxHistoryItems,
	}
}

// GetWeather resolves a city to a known location (local table first, then
// the geocoding API), serves the report from cache when fresh, and records
// the lookup in the caller's search history.
func (u *WeatherUsecase) GetWeather(ctx context.Context, userID int64, city string) (*domain.WeatherReport, error) {
	loc, err := u.resolveLocation(ctx, city)
	if err != nil {
		return nil, err
	}

	report, err := u.cache.GetReport(ctx, loc.ID)
	switch {
	case err == nil:
		metrics.WeatherLookupsTotal.WithLabelValues("hit").Inc()
	case errors.Is(err, domain.ErrCacheMiss):
		metrics.WeatherLookupsTotal.WithLabelValues("miss").Inc()
		report, err = u.upstream.Fetch(ctx, loc)
		if err != nil {
			return nil, err
		}
		if err := u.cache.SetReport(ctx, loc.ID, report, u.cacheTTL); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := u.history.Record(ctx, userID, loc.ID, loc.Name, u.maxHistoryItems); err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	return report, nil
}

func (u *WeatherUsecase) resolveLocation(ctx context.Context, city string) (*domain.Location, error) {
	loc, err := u.locRepo.FindByName(ctx, city)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, domain.ErrLocationNotFound) {
		return nil, fmt.Errorf("find location: %w", err)
	}

	loc, err = u.upstream.Geocode(ctx, city)
	if err != nil {
		return nil, err
	}
	created, err := u.locRepo.Create(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("store location: %w", err)
	}
	return created, nil
}

func (u *WeatherUsecase) History(ctx context.Context, userID int64) ([]domain.SearchHistory, error) {
	items, err := u.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}

func (u *WeatherUsecase) DeleteHistory(ctx context.Context, recordID, userID int64) error {
	return u.history.Delete(ctx, recordID, userID)
}
