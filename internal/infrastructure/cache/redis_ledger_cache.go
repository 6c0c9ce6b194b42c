package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/returnhub/backend/internal/domain/inventory"
	"github.com/returnhub/backend/internal/infrastructure/config"
)

const ledgerKey = "ledger:movements"

// RedisLedgerCache caches the reconstructed movement ledger in Redis so that
// repeated ledger reads do not rescan the unit store. Suitable for
// deployments where multiple instances share the derived view.
type RedisLedgerCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisLedgerCache creates a new Redis-backed ledger cache
func NewRedisLedgerCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisLedgerCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLedgerCache{client: client, logger: logger}, nil
}

// NewRedisLedgerCacheWithClient creates a cache with an existing Redis client
func NewRedisLedgerCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisLedgerCache {
	return &RedisLedgerCache{client: client, logger: logger}
}

// Get returns the cached ledger. A miss or any Redis error reports false so
// the caller falls through to reconstruction.
func (c *RedisLedgerCache) Get(ctx context.Context) ([]inventory.Movement, bool) {
	data, err := c.client.Get(ctx, ledgerKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("ledger cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var movements []inventory.Movement
	if err := json.Unmarshal(data, &movements); err != nil {
		c.logger.Warn("ledger cache entry corrupt, dropping", zap.Error(err))
		c.Invalidate(ctx)
		return nil, false
	}
	return movements, true
}

// Set stores the ledger with the given TTL
func (c *RedisLedgerCache) Set(ctx context.Context, movements []inventory.Movement, ttl time.Duration) {
	data, err := json.Marshal(movements)
	if err != nil {
		c.logger.Warn("ledger cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, ledgerKey, data, ttl).Err(); err != nil {
		c.logger.Warn("ledger cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached ledger
func (c *RedisLedgerCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, ledgerKey).Err(); err != nil {
		c.logger.Warn("ledger cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisLedgerCache) Close() error {
	return c.client.Close()
}
