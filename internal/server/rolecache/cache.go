// Package rolecache keeps recently resolved user roles in Redis so that
// authorization checks on hot paths skip the database.
//
// Entries expire after a short TTL. A role change replaces the entry with a
// tombstone for one TTL, and fills only land on an empty key, so a reader
// that loaded the old role before the change cannot write it back.
package rolecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the role is not cached.
var ErrMiss = errors.New("role cache miss")

const (
	keyPrefix = "role:"
	tombstone = "-"
)

type Cache interface {
	Get(ctx context.Context, userID string) (models.Role, error)
	Set(ctx context.Context, userID string, role models.Role) error
	Evict(ctx context.Context, userID string) error
}

// RedisCache implements Cache on a go-redis client.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) (models.Role, error) {
	v, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	if v == tombstone {
		return "", ErrMiss
	}
	role, err := models.ParseRole(v)
	if err != nil {
		// garbage under our key is treated as absent
		return "", ErrMiss
	}
	return role, nil
}

// Set fills an empty entry. It does nothing while the key holds a role or
// a tombstone.
func (c *RedisCache) Set(ctx context.Context, userID string, role models.Role) error {
	if err := c.client.SetNX(ctx, key(userID), string(role), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}

// Evict drops the cached role and blocks refills for one TTL.
func (c *RedisCache) Evict(ctx context.Context, userID string) error {
	if err := c.client.Set(ctx, key(userID), tombstone, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis evict: %w", err)
	}
	return nil
}

// Noop never caches; every Get misses. It is used when no Redis address is
// configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (models.Role, error) { return "", ErrMiss }
func (Noop) Set(context.Context, string, models.Role) error { return nil }
func (Noop) Evict(context.Context, string) error { return nil }
