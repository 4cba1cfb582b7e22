package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type record[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore keeps values in memory for a sliding time window.
// Every successful Get or Put pushes the expiry forward.
type TTLStore[V any] struct {
	name     string
	ttl      time.Duration
	interval time.Duration
	logger   *logrus.Logger
	now      func() time.Time

	mu      sync.Mutex
	records map[string]*record[V]
}

// NewTTLStore creates a store whose entries expire after ttl of inactivity
func NewTTLStore[V any](name string, ttl time.Duration, logger *logrus.Logger) *TTLStore[V] {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return &TTLStore[V]{
		name:     name,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		records:  make(map[string]*record[V]),
	}
}

// Create stores value under a new random key and returns the key
func (s *TTLStore[V]) Create(value V) string {
	key := uuid.New().String()
	s.Put(key, value)
	return key
}

// Put stores or replaces the value under key
func (s *TTLStore[V]) Put(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = &record[V]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the value under key if present and not expired
func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	rec, ok := s.records[key]
	if !ok {
		return zero, false
	}
	now := s.now()
	if now.After(rec.expiresAt) {
		delete(s.records, key)
		return zero, false
	}
	rec.expiresAt = now.Add(s.ttl)
	return rec.value, true
}

// Update applies fn to the stored value under the lock. It returns false
// when the key is unknown or expired.
func (s *TTLStore[V]) Update(key string, fn func(V) V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || s.now().After(rec.expiresAt) {
		delete(s.records, key)
		return false
	}
	rec.value = fn(rec.value)
	rec.expiresAt = s.now().Add(s.ttl)
	return true
}

// Delete removes key
func (s *TTLStore[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}

// Len returns the number of stored entries, expired ones included
func (s *TTLStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Sweep removes every expired entry and returns how many were removed
func (s *TTLStore[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, rec := range s.records {
		if now.After(rec.expiresAt) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Start runs the janitor until ctx is cancelled
func (s *TTLStore[V]) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *TTLStore[V]) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 && s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"store":   s.name,
					"removed": removed,
				}).Debug("Expired entries removed")
			}
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.WithField("store", s.name).Info("Store janitor stopped")
			}
			return
		}
	}
}
