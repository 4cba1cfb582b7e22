package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*TTLStore[int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewTTLStore[int]("test", ttl, nil)
	s.now = clock.Now
	return s, clock
}

func TestTTLStore_CreateGet(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	key := s.Create(42)
	require.NotEmpty(t, key)

	value, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, 42, value)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestTTLStore_Expiry(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	key := s.Create(1)

	clock.Advance(50 * time.Second)
	_, ok := s.Get(key)
	require.True(t, ok, "Get inside the window should succeed")

	// Get slides the window forward
	clock.Advance(50 * time.Second)
	_, ok = s.Get(key)
	require.True(t, ok)

	clock.Advance(61 * time.Second)
	_, ok = s.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestTTLStore_Update(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	key := s.Create(1)

	ok := s.Update(key, func(v int) int { return v + 10 })
	require.True(t, ok)
	value, _ := s.Get(key)
	assert.Equal(t, 11, value)

	clock.Advance(2 * time.Minute)
	assert.False(t, s.Update(key, func(v int) int { return v + 1 }))
	assert.False(t, s.Update("missing", func(v int) int { return v }))
}

func TestTTLStore_Sweep(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	s.Create(1)
	s.Create(2)

	clock.Advance(30 * time.Second)
	fresh := s.Create(3)

	clock.Advance(45 * time.Second)
	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get(fresh)
	assert.True(t, ok)
}

func TestTTLStore_Delete(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	key := s.Create(5)
	s.Delete(key)

	_, ok := s.Get(key)
	assert.False(t, ok)
}

func TestTTLStore_JanitorStopsOnCancel(t *testing.T) {
	s := NewTTLStore[string]("janitor", time.Millisecond, nil)
	s.interval = 5 * time.Millisecond
	s.Put("k", "v")

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestTTLStore_Concurrent(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	key := s.Create(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(key, func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	value, _ := s.Get(key)
	assert.Equal(t, 50, value)
}
