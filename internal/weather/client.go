// Package weather talks to the Open-Meteo geocoding and forecast APIs.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gefest173/meteora/internal/domain"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// Client is the upstream weather collaborator. Both endpoints are plain
// GET+JSON; requests are bounded by the http client timeout.
type Client struct {
	http         *http.Client
	geocodingURL string
	forecastURL  string
}

func NewClient() *Client {
	return &Client{
		http:         &http.Client{Timeout: 30 * time.Second},
		geocodingURL: defaultGeocodingURL,
		forecastURL:  defaultForecastURL,
	}
}

// NewClientWithURLs is used by tests to point at an httptest server.
func NewClientWithURLs(httpClient *http.Client, geocodingURL, forecastURL string) *Client {
	return &Client{http: httpClient, geocodingURL: geocodingURL, forecastURL: forecastURL}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Admin1    string  `json:"admin1"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

// Geocode resolves a city name to a location. Returns
// domain.ErrLocationNotFound when the API has no match.
func (c *Client) Geocode(ctx context.Context, name string) (*domain.Location, error) {
	params := url.Values{
		"name":     {name},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	var resp geocodeResponse
	if err := c.getJSON(ctx, c.geocodingURL, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, domain.ErrLocationNotFound
	}

	r := resp.Results[0]
	tz := r.Timezone
	if tz == "" {
		tz = "UTC"
	}
	return &domain.Location{
		Name:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Admin1:    r.Admin1,
		Timezone:  tz,
	}, nil
}

type forecastResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		WeatherCode   int     `json:"weather_code"`
		Precipitation float64 `json:"precipitation"`
		Pressure      float64 `json:"pressure_msl"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		Humidity      float64 `json:"relative_humidity_2m"`
	} `json:"current"`
	Hourly struct {
		Temperature []float64 `json:"temperature_2m"`
	} `json:"hourly"`
	Daily struct {
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Fetch retrieves the current conditions plus a one-day hourly and daily
// forecast for a location and shapes them into a WeatherReport.
func (c *Client) Fetch(ctx context.Context, loc *domain.Location) (*domain.WeatherReport, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		"current":       {"temperature_2m,weather_code,precipitation,pressure_msl,wind_speed_10m,relative_humidity_2m"},
		"hourly":        {"temperature_2m"},
		"daily":         {"temperature_2m_max,temperature_2m_min"},
		"timezone":      {loc.Timezone},
		"forecast_days": {"1"},
	}

	var resp forecastResponse
	if err := c.getJSON(ctx, c.forecastURL, params, &resp); err != nil {
		return nil, err
	}

	hourly := resp.Hourly.Temperature
	if len(hourly) > 24 {
		hourly = hourly[:24]
	}
	report := &domain.WeatherReport{
		City:               loc.Name,
		Country:            loc.Country,
		Temperature:        resp.Current.Temperature,
		WeatherCode:        resp.Current.WeatherCode,
		Precipitation:      resp.Current.Precipitation,
		Pressure:           resp.Current.Pressure,
		WindSpeed:          resp.Current.WindSpeed,
		Humidity:           resp.Current.Humidity,
		HourlyTemperatures: hourly,
		LastUpdated:        time.Now().UTC(),
	}
	if len(resp.Daily.TemperatureMax) > 0 {
		report.MaxTemperature = resp.Daily.TemperatureMax[0]
	}
	if len(resp.Daily.TemperatureMin) > 0 {
		report.MinTemperature = resp.Daily.TemperatureMin[0]
	}
	return report, nil
}

func (c *Client) getJSON(ctx context.Context, base string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWeatherUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrWeatherUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
