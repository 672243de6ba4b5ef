package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"suraksha-api/internal/config"
	"suraksha-api/internal/domain/models"
	"suraksha-api/pkg/logger"
)

const (
	keyVerdictPrefix   = "cache:verdict:"
	keyRateLimitPrefix = "rate_limit:"
)

// RedisCache wraps the Redis client with typed operations
type RedisCache struct {
	client     *redis.Client
	keyPrefix  string
	verdictTTL time.Duration
	logger     *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, verdictTTL time.Duration, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:     client,
		keyPrefix:  cfg.KeyPrefix,
		verdictTTL: verdictTTL,
		logger:     log,
	}, nil
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// GetVerdict returns a cached verdict for a content hash. Transport errors
// are logged and reported as a miss.
func (c *RedisCache) GetVerdict(ctx context.Context, contentHash string) (*models.Verdict, bool) {
	data, err := c.client.Get(ctx, c.key(keyVerdictPrefix+contentHash)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("verdict cache lookup failed")
		return nil, false
	}

	var v models.Verdict
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		c.logger.Warn().Err(err).Msg("corrupt verdict cache entry")
		return nil, false
	}
	return &v, true
}

// SetVerdict caches a verdict under a content hash, best-effort
func (c *RedisCache) SetVerdict(ctx context.Context, contentHash string, v *models.Verdict) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(keyVerdictPrefix+contentHash), data, c.verdictTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("verdict cache store failed")
	}
}

// CheckRateLimit checks and increments the rate limit counter.
// Returns (allowed, remaining, resetTime, error).
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey := fmt.Sprintf("%s%s:%d", keyRateLimitPrefix, key, now.Unix()/int64(window.Seconds()))

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, c.key(windowKey))
	pipe.Expire(ctx, c.key(windowKey), window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= limit, remaining, now.Add(window), nil
}
