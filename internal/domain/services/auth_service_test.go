package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory CacheService good enough for session storage.
type fakeCache struct {
	values map[string]string
	hashes map[string]map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values: make(map[string]string),
		hashes: make(map[string]map[string]string),
	}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case string:
		c.values[key] = v
	case []byte:
		c.values[key] = string(v)
	}
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", assertCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	delete(c.hashes, key)
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.values[key]
	return ok, nil
}

func (c *fakeCache) HSet(_ context.Context, key, field string, value interface{}) error {
	if c.hashes[key] == nil {
		c.hashes[key] = make(map[string]string)
	}
	if s, ok := value.(string); ok {
		c.hashes[key][field] = s
	}
	return nil
}

func (c *fakeCache) HGet(_ context.Context, key, field string) (string, error) {
	v, ok := c.hashes[key][field]
	if !ok {
		return "", assertCacheMiss
	}
	return v, nil
}

func (c *fakeCache) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string, len(c.hashes[key]))
	for k, v := range c.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

var assertCacheMiss = errors.New("cache miss")

func demoAuth() (*AuthService, *fakeCache) {
	cache := newFakeCache()
	svc := NewAuthService(AuthConfig{
		UserID:   "us1122334456",
		Name:     "John Doe",
		Email:    "john.doe@cloudbyz.com",
		Password: "password",
	}, cache)
	return svc, cache
}

func TestCheckCredentials(t *testing.T) {
	svc, _ := demoAuth()

	assert.NoError(t, svc.CheckCredentials("john.doe@cloudbyz.com", "password"))
	assert.ErrorIs(t, svc.CheckCredentials("john.doe@cloudbyz.com", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.CheckCredentials("someone@else.com", "password"), ErrInvalidCredentials)
}

func TestLoginAndResolve(t *testing.T) {
	svc, _ := demoAuth()
	ctx := context.Background()

	token, identity, err := svc.Login(ctx, "john.doe@cloudbyz.com", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "us1122334456", identity.ID)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _ := demoAuth()

	_, err := svc.Resolve(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLogout(t *testing.T) {
	svc, _ := demoAuth()
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "john.doe@cloudbyz.com", "password")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}
