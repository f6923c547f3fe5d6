package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staynest/marketplace-service/internal/app/marketplace/entity"
	"staynest/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	profileCacheKeyPrefix = "profile:"
	serviceName           = "marketplace-service"
)

type profileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache создает Redis-кеш профилей с TTL
func NewProfileCache(client *redis.Client, ttl time.Duration) ProfileCache {
	return &profileCache{
		client: client,
		ttl:    ttl,
	}
}

func profileCacheKey(userID uuid.UUID) string {
	return profileCacheKeyPrefix + userID.String()
}

// Get получает профиль из кеша
// Возвращает ErrCacheMiss, если ключа нет
func (c *profileCache) Get(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	data, err := c.client.Get(ctx, profileCacheKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, profileCacheKeyPrefix)
			return nil, ErrCacheMiss
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get profile from redis: %w", err)
	}

	var profile entity.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	metrics.RecordCacheHit(serviceName, profileCacheKeyPrefix)
	return &profile, nil
}

// Set сохраняет профиль в кеш с TTL
func (c *profileCache) Set(ctx context.Context, profile *entity.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := c.client.Set(ctx, profileCacheKey(profile.UserID), data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set profile in redis: %w", err)
	}

	return nil
}

// Invalidate удаляет профиль из кеша
// Вызывается после пересчета агрегатов рейтинга
func (c *profileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, profileCacheKey(userID)).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate profile in redis: %w", err)
	}

	return nil
}
