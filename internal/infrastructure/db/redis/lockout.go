package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockoutStore tracks failed login attempts per account in Redis.
// Key format: login_attempts:<username>
//
// The attempt window is enforced with a key TTL refreshed on every
// failure, so the counter only vanishes once the account has gone a
// full window without a failed attempt.
type LockoutStore struct {
	client *redis.Client
	window time.Duration
}

func NewLockoutStore(client *redis.Client, window time.Duration) *LockoutStore {
	return &LockoutStore{client: client, window: window}
}

// Failures returns the number of failed attempts recorded in the current window.
func (s *LockoutStore) Failures(ctx context.Context, username string) (int, error) {
	n, err := s.client.Get(ctx, s.key(username)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lockout get: %w", err)
	}
	return n, nil
}

// RecordFailure increments the failure counter, re-anchors the expiry at
// this failure, and returns the new count.
func (s *LockoutStore) RecordFailure(ctx context.Context, username string) (int, error) {
	key := s.key(username)
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("lockout incr: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
		return int(n), fmt.Errorf("lockout expire: %w", err)
	}
	return int(n), nil
}

// Reset clears the counter after a successful login.
func (s *LockoutStore) Reset(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, s.key(username)).Err(); err != nil {
		return fmt.Errorf("lockout reset: %w", err)
	}
	return nil
}

func (s *LockoutStore) key(username string) string {
	return "login_attempts:" + username
}
