package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Divyansh-9/Urja/internal/domain"
)

const ucoKeyPrefix = "uco:"

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to Redis at addr and returns a shared UCOCache.
// Pings once so a bad address fails at startup rather than on first request.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (UCOCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{rdb: rdb, ttl: ttl}, nil
}

func ucoKey(userID string) string {
	return ucoKeyPrefix + userID
}

func (c *redisCache) Get(ctx context.Context, userID string) (*domain.UserContextObject, error) {
	raw, err := c.rdb.Get(ctx, ucoKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var uco domain.UserContextObject
	if err := json.Unmarshal(raw, &uco); err != nil {
		// Corrupt entry; drop it and treat as miss.
		_ = c.rdb.Del(ctx, ucoKey(userID)).Err()
		return nil, ErrCacheMiss
	}
	return &uco, nil
}

func (c *redisCache) Set(ctx context.Context, uco *domain.UserContextObject) error {
	if uco == nil {
		return errors.New("cannot cache nil context")
	}
	raw, err := json.Marshal(uco)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	if err := c.rdb.Set(ctx, ucoKey(uco.Meta.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.rdb.Del(ctx, ucoKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
