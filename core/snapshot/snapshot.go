package snapshot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc builds a fresh value for the snapshot.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Snapshot holds a lazily loaded value with a time-to-live and an explicit
// reload trigger. Concurrent loads are collapsed with singleflight.
// A Snapshot is owned by whoever creates it; there is no package-level state.
type Snapshot[T any] struct {
	load LoadFunc[T]
	ttl  time.Duration
	now  func() time.Time

	mu     sync.RWMutex
	value  T
	built  time.Time
	loaded bool

	sf singleflight.Group
}

// New creates a snapshot. A zero ttl means every Get reloads.
func New[T any](load LoadFunc[T], ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{load: load, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *Snapshot[T]) WithClock(now func() time.Time) *Snapshot[T] {
	s.now = now
	return s
}

// IsExpired reports whether the held value must be rebuilt before use.
func (s *Snapshot[T]) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiredLocked()
}

func (s *Snapshot[T]) expiredLocked() bool {
	if !s.loaded || s.ttl == 0 {
		return true
	}
	return s.now().Sub(s.built) > s.ttl
}

// Get returns the current value, loading it first when absent or expired.
func (s *Snapshot[T]) Get(ctx context.Context) (T, error) {
	s.mu.RLock()
	if !s.expiredLocked() {
		v := s.value
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	return s.reload(ctx, false)
}

// Reload forces a rebuild regardless of the TTL.
func (s *Snapshot[T]) Reload(ctx context.Context) (T, error) {
	return s.reload(ctx, true)
}

// Invalidate drops the held value; the next Get reloads.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

// BuiltAt returns when the held value was loaded (zero if never).
func (s *Snapshot[T]) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return time.Time{}
	}
	return s.built
}

func (s *Snapshot[T]) reload(ctx context.Context, force bool) (T, error) {
	key := "get"
	if force {
		key = "reload"
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if !force {
			// Another caller may have refreshed while we waited.
			s.mu.RLock()
			if !s.expiredLocked() {
				v := s.value
				s.mu.RUnlock()
				return v, nil
			}
			s.mu.RUnlock()
		}

		v, err := s.load(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.value = v
		s.built = s.now()
		s.loaded = true
		s.mu.Unlock()

		return v, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
