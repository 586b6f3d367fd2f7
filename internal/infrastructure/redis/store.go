// Package redis backs the ephemeral secret store and the weather report
// cache with a shared go-redis client. Per-key expiry is enforced by redis
// itself; nothing here polls or compares timestamps.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gefest173/meteora/internal/domain"
	"github.com/redis/go-redis/v9"
)

// NewClient parses the URL, connects, and pings to verify connectivity
// before returning, so a misconfigured store fails at startup rather than
// on the first request.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// SecretStore implements repository.SecretStore on a redis client.
type SecretStore struct {
	client *redis.Client
}

func NewSecretStore(client *redis.Client) *SecretStore {
	return &SecretStore{client: client}
}

func (s *SecretStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SecretStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

func (s *SecretStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ReportCache stores shaped weather reports as JSON with a TTL.
type ReportCache struct {
	client *redis.Client
}

func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

func cacheKey(locationID int64) string {
	return fmt.Sprintf("weather:%d", locationID)
}

func (c *ReportCache) GetReport(ctx context.Context, locationID int64) (*domain.WeatherReport, error) {
	data, err := c.client.Get(ctx, cacheKey(locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached report: %w", err)
	}

	var report domain.WeatherReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

func (c *ReportCache) SetReport(ctx context.Context, locationID int64, report *domain.WeatherReport, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(locationID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	return nil
}
