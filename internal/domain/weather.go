package domain

import (
	"errors"
	"time"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrCacheMiss        = errors.New("report not cached")
	ErrHistoryNotFound  = errors.New("history record not found")
	ErrWeatherUpstream  = errors.New("weather service unavailable")
)

type Location struct {
	ID        int64
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	Admin1    string
	Timezone  string
}

type SearchHistory struct {
	ID           int64
	UserID       int64
	LocationID   int64
	CityName     string
	SearchCount  int
	LastSearched time.Time
}

// WeatherReport is the shaped response served to clients and cached in redis.
type WeatherReport struct {
	City               string    `json:"city"`
	Country            string    `json:"country"`
	Temperature        float64   `json:"temperature"`
	WeatherCode        int       `json:"weather_code"`
	Precipitation      float64   `json:"precipitation"`
	Pressure           float64   `json:"pressure"`
	WindSpeed          float64   `json:"windspeed"`
	Humidity           float64   `json:"humidity"`
	HourlyTemperatures []float64 `json:"hourly_temperatures"`
	MaxTemperature     float64   `json:"max_temperature"`
	MinTemperature     float64   `json:"min_temperature"`
	LastUpdated        time.Time `json:"last_updated"`
}
