package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gefest173/meteora/internal/domain"
	redisstore "github.com/gefest173/meteora/internal/infrastructure/redis"
)

func newStore(t *testing.T) (*redisstore.SecretStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisstore.NewSecretStore(client), mr
}

func TestSecretStore_SetGet(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.SetWithTTL(ctx, "reg_confirm:a@x.com", "4821", 300*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "reg_confirm:a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "4821" {
		t.Errorf("value = %q, want %q", got, "4821")
	}
}

func TestSecretStore_GetAbsent_ReturnsErrSecretNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Get(context.Background(), "login_code:nobody@x.com")
	if !errors.Is(err, domain.ErrSecretNotFound) {
		t.Errorf("err = %v, want ErrSecretNotFound", err)
	}
}

func TestSecretStore_TTLExpiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	if err := store.SetWithTTL(ctx, "reg_confirm:a@x.com", "1234", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, err := store.Get(ctx, "reg_confirm:a@x.com")
	if !errors.Is(err, domain.ErrSecretNotFound) {
		t.Errorf("err after TTL = %v, want ErrSecretNotFound", err)
	}
}

func TestSecretStore_GetAfterDelete_ReturnsAbsent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.SetWithTTL(ctx, "pwd_hash:a@x.com", "$2a$10$abc", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "pwd_hash:a@x.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := store.Get(ctx, "pwd_hash:a@x.com")
	if !errors.Is(err, domain.ErrSecretNotFound) {
		t.Errorf("err after delete = %v, want ErrSecretNotFound", err)
	}
}

func TestSecretStore_OverwriteReplacesValueAndTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	if err := store.SetWithTTL(ctx, "login_code:a@x.com", "1111", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetWithTTL(ctx, "login_code:a@x.com", "2222", time.Minute); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := store.Get(ctx, "login_code:a@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "2222" {
		t.Errorf("value = %q, want %q", got, "2222")
	}
}

func TestReportCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := redisstore.NewReportCache(client)
	ctx := context.Background()

	report := &domain.WeatherReport{
		City:        "Moscow",
		Country:     "Russia",
		Temperature: -3.5,
		WeatherCode: 71,
		LastUpdated: time.Now().UTC().Truncate(time.Second),
	}

	if err := cache.SetReport(ctx, 7, report, time.Minute); err != nil {
		t.Fatalf("set report: %v", err)
	}

	got, err := cache.GetReport(ctx, 7)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.City != report.City || got.Temperature != report.Temperature {
		t.Errorf("report = %+v, want %+v", got, report)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.GetReport(ctx, 7); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("err after TTL = %v, want ErrCacheMiss", err)
	}
}
