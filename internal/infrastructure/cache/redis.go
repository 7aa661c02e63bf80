package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillsign/quillsign/internal/domain/services"
)

var ErrCacheMiss = errors.New("cache miss")

// RedisCacheService implements services.CacheService on go-redis.
type RedisCacheService struct {
	client *redis.Client
}

// CreateCacheService connects to Redis using a URL of the form
// redis://host:port/db and verifies the connection before returning.
func CreateCacheService(redisURL string) (services.CacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCacheService{client: client}, nil
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(client *redis.Client) services.CacheService {
	return &RedisCacheService{client: client}
}

func (c *RedisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCacheService) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (c *RedisCacheService) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (c *RedisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

func (c *RedisCacheService) HSet(ctx context.Context, key string, field string, value interface{}) error {
	if err := c.client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("failed to hset %s.%s: %w", key, field, err)
	}
	return nil
}

func (c *RedisCacheService) HGet(ctx context.Context, key string, field string) (string, error) {
	value, err := c.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to hget %s.%s: %w", key, field, err)
	}
	return value, nil
}

func (c *RedisCacheService) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to hgetall %s: %w", key, err)
	}
	return values, nil
}

func (c *RedisCacheService) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCacheService) Close() error {
	return c.client.Close()
}
