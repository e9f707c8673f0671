package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SaveToken stores an operator's bearer token. No TTL: tokens have no local
// expiry handling, a stale one just fails the next privileged upstream call.
func (s *Store) SaveToken(ctx context.Context, user, token string) error {
	if err := s.client.Set(ctx, SessionKey(user), token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

// GetToken retrieves an operator's bearer token. A missing token is not an
// error, it returns "".
func (s *Store) GetToken(ctx context.Context, user string) (string, error) {
	token, err := s.client.Get(ctx, SessionKey(user)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	return token, nil
}

// DeleteToken removes an operator's bearer token.
func (s *Store) DeleteToken(ctx context.Context, user string) error {
	if err := s.client.Del(ctx, SessionKey(user)).Err(); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}
