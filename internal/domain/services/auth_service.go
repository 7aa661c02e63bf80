package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session token is expired or unknown")
)

// AuthConfig carries the demo account this deployment trusts. There is no
// user registration; every credential check compares against this account.
type AuthConfig struct {
	UserID   string
	Name     string
	Email    string
	Password string
}

// AuthService checks credentials against the configured demo account and
// keeps login sessions in the cache so they survive server restarts.
type AuthService struct {
	config AuthConfig
	cache  CacheService
}

func NewAuthService(config AuthConfig, cache CacheService) *AuthService {
	return &AuthService{config: config, cache: cache}
}

// CheckCredentials verifies an email/password pair without creating a
// session. The signing flow's authentication step uses this directly.
func (s *AuthService) CheckCredentials(email, password string) error {
	if email != s.config.Email || password != s.config.Password {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials and mints a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, Identity, error) {
	if err := s.CheckCredentials(email, password); err != nil {
		return "", Identity{}, err
	}

	token := uuid.New().String()
	identity := s.identity()
	key := fmt.Sprintf(SessionKeyPattern, token)

	fields := map[string]string{
		"user_id": identity.ID,
		"name":    identity.Name,
		"email":   identity.Email,
	}
	for field, value := range fields {
		if err := s.cache.HSet(ctx, key, field, value); err != nil {
			return "", Identity{}, fmt.Errorf("failed to store session: %w", err)
		}
	}
	// HSET does not expire the key on its own.
	if err := s.cache.Set(ctx, key+":ttl", "1", SessionDuration); err != nil {
		return "", Identity{}, fmt.Errorf("failed to store session ttl: %w", err)
	}

	return token, identity, nil
}

// Resolve maps a session token back to its identity.
func (s *AuthService) Resolve(ctx context.Context, token string) (Identity, error) {
	key := fmt.Sprintf(SessionKeyPattern, token)
	alive, err := s.cache.Exists(ctx, key+":ttl")
	if err != nil {
		return Identity{}, fmt.Errorf("failed to check session: %w", err)
	}
	if !alive {
		return Identity{}, ErrSessionExpired
	}

	fields, err := s.cache.HGetAll(ctx, key)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return Identity{}, ErrSessionExpired
	}

	return Identity{
		ID:    fields["user_id"],
		Name:  fields["name"],
		Email: fields["email"],
	}, nil
}

// Logout drops the session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	key := fmt.Sprintf(SessionKeyPattern, token)
	if err := s.cache.Delete(ctx, key); err != nil {
		return err
	}
	return s.cache.Delete(ctx, key+":ttl")
}

func (s *AuthService) identity() Identity {
	return Identity{
		ID:    s.config.UserID,
		Name:  s.config.Name,
		Email: s.config.Email,
	}
}
