package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"comex-portal/internal/core/cache"
)

const keyPrefix = "session:"

// RedisStore implements Store on top of the cache port.
type RedisStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisStore creates a new RedisStore. Sessions expire after ttl of inactivity.
func NewRedisStore(c cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{
		cache: c,
		ttl:   ttl,
	}
}

// Save persists the session and resets its TTL.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.cache.Set(ctx, keyPrefix+sess.ID, data, s.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// Delete removes a session by ID.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
