// Package cache provides the Redis-backed constraint cache.
package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/goalplate/v1/internal/domain/constraint"
	"github.com/goalplate/v1/internal/infrastructure/config"
	"github.com/goalplate/v1/internal/ports/outbound"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const constraintKeyPrefix = "goalplate:constraints:"

// ConstraintCache stores encoded merged constraint sets in Redis.
// Invalidation is a DEL so a reader never sees a stale set after a
// goal mutation returns.
type ConstraintCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient builds a client from configuration.
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})
}

// NewConstraintCache creates a Redis constraint cache
func NewConstraintCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ConstraintCache {
	return &ConstraintCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("constraint-cache"),
	}
}

var _ outbound.ConstraintCache = (*ConstraintCache)(nil)

// Get returns the cached merged set for a user, if present.
func (c *ConstraintCache) Get(ctx context.Context, userID uuid.UUID) (*constraint.Set, bool, error) {
	data, err := c.client.Get(ctx, constraintKey(userID)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	set, err := constraint.Decode(data)
	if err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.logger.Warn("dropping undecodable cache entry",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		_ = c.client.Del(ctx, constraintKey(userID)).Err()
		return nil, false, nil
	}
	return set, true, nil
}

// Set stores the encoded set under the user's key.
func (c *ConstraintCache) Set(ctx context.Context, userID uuid.UUID, set *constraint.Set) error {
	data, err := set.Encode()
	if err != nil {
		return err
	}
	return c.client.Set(ctx, constraintKey(userID), data, c.ttl).Err()
}

// Invalidate removes the user's entry.
func (c *ConstraintCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, constraintKey(userID)).Err()
}

func constraintKey(userID uuid.UUID) string {
	return constraintKeyPrefix + userID.String()
}
