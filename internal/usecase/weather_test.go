package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/gefest173/meteora/internal/usecase"
)

// ---- fakes ----

type fakeUpstream struct {
	geocodeCalls int
	fetchCalls   int
	geocode      func(name string) (*domain.Location, error)
	fetch        func(loc *domain.Location) (*domain.WeatherReport, error)
}

func (f *fakeUpstream) Geocode(_ context.Context, name string) (*domain.Location, error) {
	f.geocodeCalls++
	return f.geocode(name)
}

func (f *fakeUpstream) Fetch(_ context.Context, loc *domain.Location) (*domain.WeatherReport, error) {
	f.fetchCalls++
	return f.fetch(loc)
}

type fakeLocationRepo struct {
	byName map[string]*domain.Location
	seq    int64
}

func (r *fakeLocationRepo) FindByName(_ context.Context, name string) (*domain.Location, error) {
	if loc, ok := r.byName[name]; ok {
		return loc, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *domain.Location) (*domain.Location, error) {
	r.seq++
	loc.ID = r.seq
	if r.byName == nil {
		r.byName = make(map[string]*domain.Location)
	}
	r.byName[loc.Name] = loc
	return loc, nil
}

type historyCall struct {
	userID     int64
	locationID int64
	cityName   string
	maxItems   int
}

type fakeHistoryRepo struct {
	calls []historyCall
	items []domain.SearchHistory
}

func (r *fakeHistoryRepo) Record(_ context.Context, userID, locationID int64, cityName string, maxItems int) error {
	r.calls = append(r.calls, historyCall{userID, locationID, cityName, maxItems})
	return nil
}

func (r *fakeHistoryRepo) ListByUser(_ context.Context, _ int64) ([]domain.SearchHistory, error) {
	return r.items, nil
}

func (r *fakeHistoryRepo) Delete(_ context.Context, recordID, userID int64) error {
	for i, item := range r.items {
		if item.ID == recordID && item.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrHistoryNotFound
}

type fakeCache struct {
	reports map[int64]*domain.WeatherReport
}

func (c *fakeCache) GetReport(_ context.Context, locationID int64) (*domain.WeatherReport, error) {
	if r, ok := c.reports[locationID]; ok {
		return r, nil
	}
	return nil, domain.ErrCacheMiss
}

func (c *fakeCache) SetReport(_ context.Context, locationID int64, report *domain.WeatherReport, _ time.Duration) error {
	if c.reports == nil {
		c.reports = make(map[int64]*domain.WeatherReport)
	}
	c.reports[locationID] = report
	return nil
}

// ---- helpers ----

var moscow = &domain.Location{Name: "Moscow", Country: "Russia", Latitude: 55.75, Longitude: 37.62, Timezone: "Europe/Moscow"}

func newWeather(up *fakeUpstream, locs *fakeLocationRepo, hist *fakeHistoryRepo, cache *fakeCache) *usecase.WeatherUsecase {
	return usecase.NewWeatherUsecase(up, locs, hist, cache, 5*time.Minute, 20)
}

// ---- tests ----

func TestGetWeather_UnknownCity_GeocodesAndPersists(t *testing.T) {
	up := &fakeUpstream{
		geocode: func(name string) (*domain.Location, error) {
			if name != "Moscow" {
				return nil, domain.ErrLocationNotFound
			}
			loc := *moscow
			return &loc, nil
		},
		fetch: func(_ *domain.Location) (*domain.WeatherReport, error) {
			return &domain.WeatherReport{City: "Moscow", Temperature: -3.5}, nil
		},
	}
	locs, hist, cache := &fakeLocationRepo{}, &fakeHistoryRepo{}, &fakeCache{}

	report, err := newWeather(up, locs, hist, cache).GetWeather(context.Background(), 1, "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.City != "Moscow" {
		t.Errorf("city = %q", report.City)
	}
	if up.geocodeCalls != 1 {
		t.Errorf("geocode calls = %d, want 1", up.geocodeCalls)
	}
	if _, ok := locs.byName["Moscow"]; !ok {
		t.Error("geocoded location was not persisted")
	}
	if len(hist.calls) != 1 {
		t.Fatalf("history calls = %d, want 1", len(hist.calls))
	}
	if got := hist.calls[0]; got.userID != 1 || got.cityName != "Moscow" || got.maxItems != 20 {
		t.Errorf("history call = %+v", got)
	}
}

func TestGetWeather_KnownCity_SkipsGeocoding(t *testing.T) {
	loc := *moscow
	loc.ID = 7
	up := &fakeUpstream{
		fetch: func(_ *domain.Location) (*domain.WeatherReport, error) {
			return &domain.WeatherReport{City: "Moscow"}, nil
		},
	}
	locs := &fakeLocationRepo{byName: map[string]*domain.Location{"Moscow": &loc}}
	hist, cache := &fakeHistoryRepo{}, &fakeCache{}

	if _, err := newWeather(up, locs, hist, cache).GetWeather(context.Background(), 1, "Moscow"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.geocodeCalls != 0 {
		t.Errorf("geocode calls = %d, want 0", up.geocodeCalls)
	}
}

func TestGetWeather_CacheHit_SkipsUpstream(t *testing.T) {
	loc := *moscow
	loc.ID = 7
	cached := &domain.WeatherReport{City: "Moscow", Temperature: 1.5}
	up := &fakeUpstream{}
	locs := &fakeLocationRepo{byName: map[string]*domain.Location{"Moscow": &loc}}
	hist := &fakeHistoryRepo{}
	cache := &fakeCache{reports: map[int64]*domain.WeatherReport{7: cached}}

	report, err := newWeather(up, locs, hist, cache).GetWeather(context.Background(), 1, "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report != cached {
		t.Error("cached report was not returned")
	}
	if up.fetchCalls != 0 {
		t.Errorf("fetch calls = %d, want 0", up.fetchCalls)
	}
	if len(hist.calls) != 1 {
		t.Errorf("history calls = %d, want 1 (cache hits still count)", len(hist.calls))
	}
}

func TestGetWeather_CacheMiss_FetchesAndCaches(t *testing.T) {
	loc := *moscow
	loc.ID = 7
	up := &fakeUpstream{
		fetch: func(_ *domain.Location) (*domain.WeatherReport, error) {
			return &domain.WeatherReport{City: "Moscow", Temperature: -3.5}, nil
		},
	}
	locs := &fakeLocationRepo{byName: map[string]*domain.Location{"Moscow": &loc}}
	hist, cache := &fakeHistoryRepo{}, &fakeCache{}

	if _, err := newWeather(up, locs, hist, cache).GetWeather(context.Background(), 1, "Moscow"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1", up.fetchCalls)
	}
	if _, ok := cache.reports[7]; !ok {
		t.Error("report was not cached")
	}
}

func TestGetWeather_CityNotFound(t *testing.T) {
	up := &fakeUpstream{
		geocode: func(_ string) (*domain.Location, error) {
			return nil, domain.ErrLocationNotFound
		},
	}
	locs, hist, cache := &fakeLocationRepo{}, &fakeHistoryRepo{}, &fakeCache{}

	_, err := newWeather(up, locs, hist, cache).GetWeather(context.Background(), 1, "Atlantis")
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Errorf("err = %v, want ErrLocationNotFound", err)
	}
	if len(hist.calls) != 0 {
		t.Error("failed lookups must not be recorded in history")
	}
}

func TestGetWeather_UpstreamDown(t *testing.T) {
	loc := *moscow
	loc.ID = 7
	up := &fakeUpstream{
		fetch: func(_ *domain.Location) (*domain.WeatherReport, error) {
			return nil, domain.ErrWeatherUpstream
		},
	}
	locs := &fakeLocationRepo{byName: map[string]*domain.Location{"Moscow": &loc}}
	hist, cache := &fakeHistoryRepo{}, &fakeCache{}

	_, err := newWeather(up, locs, hist, cache).GetWeather(context.Background(), 1, "Moscow")
	if !errors.Is(err, domain.ErrWeatherUpstream) {
		t.Errorf("err = %v, want ErrWeatherUpstream", err)
	}
}

func TestDeleteHistory_WrongOwner_ReturnsNotFound(t *testing.T) {
	hist := &fakeHistoryRepo{items: []domain.SearchHistory{{ID: 3, UserID: 1, CityName: "Moscow"}}}
	w := newWeather(&fakeUpstream{}, &fakeLocationRepo{}, hist, &fakeCache{})

	if err := w.DeleteHistory(context.Background(), 3, 2); !errors.Is(err, domain.ErrHistoryNotFound) {
		t.Errorf("err = %v, want ErrHistoryNotFound", err)
	}
	if err := w.DeleteHistory(context.Background(), 3, 1); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
}
