package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	refilledAt time.Time
	touchedAt  time.Time
}

// MemoryStore implements Store in memory. A non-zero cleanup interval starts
// a janitor that drops buckets idle for over an hour; stop it with Close.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates an in-memory bucket store.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string]*bucketState),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}
	return s
}

func (s *MemoryStore) Consume(ctx context.Context, key string, cost int, cfg Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, refilledAt: now}
		s.buckets[key] = b
	}

	// Capped so a long-idle bucket cannot overflow the token count.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := min(int64(now.Sub(b.refilledAt)/cfg.RefillInterval), maxIntervals)
	if intervals > 0 {
		b.tokens = min(b.tokens+int(intervals)*cfg.RefillRate, cfg.Capacity)
		b.refilledAt = now
	}

	b.tokens -= cost
	b.touchedAt = now

	return b.tokens, b.refilledAt.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Close stops the janitor goroutine. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			cutoff := time.Now().Add(-time.Hour)
			for key, b := range s.buckets {
				if b.touchedAt.Before(cutoff) {
					delete(s.buckets, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}
