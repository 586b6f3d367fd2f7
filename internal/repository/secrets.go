package repository

import (
	"context"
	"time"
)

// SecretStore is a key-value store with per-key expiration. Entries become
// unreadable once their TTL elapses; expiry is enforced by the store itself.
type SecretStore interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns domain.ErrSecretNotFound for absent or expired keys.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
