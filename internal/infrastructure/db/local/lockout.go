package local

import (
	"context"
	"sync"
	"time"
)

// LockoutStore tracks failed login attempts in memory, used when no Redis
// is configured. Each failure re-anchors the window at that failure, so a
// counter only lapses once the account has been quiet for the full window.
// Stale counters are discarded lazily on the next read.
type LockoutStore struct {
	mu       sync.Mutex
	window   time.Duration
	attempts map[string]*attemptWindow
	now      func() time.Time
}

type attemptWindow struct {
	count int
	last  time.Time
}

func NewLockoutStore(window time.Duration) *LockoutStore {
	return &LockoutStore{
		window:   window,
		attempts: make(map[string]*attemptWindow),
		now:      time.Now,
	}
}

func (s *LockoutStore) Failures(ctx context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.attempts[username]
	if w == nil {
		return 0, nil
	}
	if s.now().Sub(w.last) >= s.window {
		delete(s.attempts, username)
		return 0, nil
	}
	return w.count, nil
}

func (s *LockoutStore) RecordFailure(ctx context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.attempts[username]
	if w == nil || now.Sub(w.last) >= s.window {
		w = &attemptWindow{}
		s.attempts[username] = w
	}
	w.count++
	w.last = now
	return w.count, nil
}

func (s *LockoutStore) Reset(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, username)
	return nil
}
