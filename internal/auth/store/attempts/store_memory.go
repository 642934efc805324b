// Package attempts counts failed login attempts per identifier within a
// fixed window. Decisions about locking belong to the auth service.
package attempts

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	count     int
	expiresAt time.Time
}

// InMemoryStore keeps counters in process memory. Suitable for a single instance.
type InMemoryStore struct {
	mu       sync.Mutex
	counters map[string]counter
	clock    func() time.Time
}

// Option configures an InMemoryStore.
type Option func(*InMemoryStore)

// WithClock sets the time source used for window expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		counters: make(map[string]counter),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Failures returns the current failure count for key within its window.
func (s *InMemoryStore) Failures(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok || !s.clock().Before(c.expiresAt) {
		delete(s.counters, key)
		return 0, nil
	}
	return c.count, nil
}

// RecordFailure increments the counter for key. The window starts at the first failure.
func (s *InMemoryStore) RecordFailure(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = counter{expiresAt: now.Add(window)}
	}
	c.count++
	s.counters[key] = c
	return c.count, nil
}

// Clear removes the counter for key.
func (s *InMemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}
