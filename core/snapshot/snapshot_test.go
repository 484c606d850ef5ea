package snapshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
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
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func counter() (LoadFunc[int], *int32) {
	var n int32
	return func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&n, 1)), nil
	}, &n
}

// TestSnapshot_Hit tests that the value is reused within the TTL.
func TestSnapshot_Hit(t *testing.T) {
	load, calls := counter()
	s := New(load, time.Hour)

	v1, err := s.Get(context.Background())
	require.NoError(t, err)
	v2, err := s.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 1, v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

// TestSnapshot_Expiration tests that an expired value is rebuilt.
func TestSnapshot_Expiration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	load, calls := counter()
	s := New(load, time.Hour).WithClock(clock.Now)

	_, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, s.IsExpired())

	clock.Advance(2 * time.Hour)
	assert.True(t, s.IsExpired())

	v, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Equal(t, clock.Now(), s.BuiltAt())
}

// TestSnapshot_ReloadAndInvalidate tests the explicit refresh contract.
func TestSnapshot_ReloadAndInvalidate(t *testing.T) {
	load, calls := counter()
	s := New(load, time.Hour)

	_, _ = s.Get(context.Background())
	v, err := s.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	s.Invalidate()
	assert.True(t, s.IsExpired())
	assert.True(t, s.BuiltAt().IsZero())

	v, err = s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

// TestSnapshot_ErrorKeepsPrevious tests that a failed load is reported and retried.
func TestSnapshot_ErrorKeepsPrevious(t *testing.T) {
	fail := true
	s := New(func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("db down")
		}
		return "ok", nil
	}, time.Hour)

	_, err := s.Get(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.True(t, s.IsExpired())

	fail = false
	v, err := s.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}

// TestSnapshot_Stampede tests that concurrent expired reads share one load.
func TestSnapshot_Stampede(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	s := New(func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
