package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"homeward/internal/pet/models"
	id "homeward/pkg/domain"
)

// RedisCache is a read-through cache over another pet Store. Pet records are
// read on every application create (availability pre-check) and on every
// catalog view, so GetByID is the hot path worth caching.
//
// Cache errors degrade to the inner store: a broken cache must never make a
// pet unreadable. Status writes invalidate before returning so the cascade in
// the lifecycle service never observes a stale "available".
type RedisCache struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache wraps inner with a TTL cache on GetByID.
func NewRedisCache(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func petCacheKey(petID id.PetID) string {
	return "pet:" + petID.String()
}

func (c *RedisCache) GetByID(ctx context.Context, petID id.PetID) (*models.Pet, error) {
	key := petCacheKey(petID)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var pet models.Pet
		if err := json.Unmarshal(raw, &pet); err == nil {
			return &pet, nil
		}
		// Corrupt entry: drop it and fall through to the inner store.
		c.client.Del(ctx, key)
	}

	pet, err := c.inner.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(pet); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "pet cache write failed", "pet_id", petID, "error", err)
		}
	}
	return pet, nil
}

func (c *RedisCache) Create(ctx context.Context, pet *models.Pet) error {
	return c.inner.Create(ctx, pet)
}

func (c *RedisCache) Update(ctx context.Context, pet *models.Pet) error {
	if err := c.inner.Update(ctx, pet); err != nil {
		return err
	}
	c.invalidate(ctx, pet.ID)
	return nil
}

func (c *RedisCache) ListByShelter(ctx context.Context, shelterID id.UserID) ([]*models.Pet, error) {
	return c.inner.ListByShelter(ctx, shelterID)
}

func (c *RedisCache) ListAvailable(ctx context.Context) ([]*models.Pet, error) {
	return c.inner.ListAvailable(ctx)
}

func (c *RedisCache) TrySetStatus(ctx context.Context, petID id.PetID, expected, next models.Status) (bool, error) {
	ok, err := c.inner.TrySetStatus(ctx, petID, expected, next)
	if err != nil {
		return false, err
	}
	if ok {
		c.invalidate(ctx, petID)
	}
	return ok, nil
}

func (c *RedisCache) invalidate(ctx context.Context, petID id.PetID) {
	if err := c.client.Del(ctx, petCacheKey(petID)).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "pet cache invalidation failed", "pet_id", petID, "error", err)
	}
}
