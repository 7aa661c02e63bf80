package services

import (
	"context"
	"time"
)

// CacheService interface for caching operations
type CacheService interface {
	// Basic operations
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Hash operations for structured data
	HSet(ctx context.Context, key string, field string, value interface{}) error
	HGet(ctx context.Context, key string, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

// Cache key patterns for the application
const (
	// Login session tokens
	SessionKeyPattern = "session:%s"

	// Dashboard stats per user email
	StatsCacheKeyPattern = "stats:%s"
)

// Common cache durations
const (
	StatsCacheDuration = 5 * time.Minute

	// Login session duration
	SessionDuration = 24 * time.Hour
)
