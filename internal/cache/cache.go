package cache

import (
	"path"
	"sync"
	"time"

	"go-cms-sdk/internal/config"
)

// Entry is a cached entity snapshot together with the time it was stored.
type Entry[T any] struct {
	Data            T         `json:"data"`
	LastCacheUpdate time.Time `json:"lastCacheUpdate"`
}

// IsStale reports whether e has outlived ttl.
// A ttl of zero or less never expires.
func IsStale[T any](e Entry[T], ttl time.Duration) bool {
	return isStale(e.LastCacheUpdate, ttl, time.Now())
}

func isStale(updated time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(updated) > ttl
}

type item struct {
	data    any
	updated time.Time
}

// Store is the process-wide in-memory cache shared by the SDK facade.
// Lookups never perform I/O. Staleness is checked lazily on read.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	epoch uint64
	now   func() time.Time
	stats Stats
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store using the configured TTL.
func New(cfg config.CacheConfig, opts ...Option) *Store {
	s := &Store{
		items: make(map[string]item),
		ttl:   cfg.TTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the staleness bound applied on read.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Load returns the entry cached under key. A missing key, an expired entry or
// an entry of a different type is a miss.
func Load[T any](s *Store, key string) (Entry[T], bool) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		s.recordMiss(key)
		return Entry[T]{}, false
	}
	if isStale(it.updated, s.ttl, s.now()) {
		s.mu.Lock()
		// Only drop the entry we saw; a concurrent Set may have replaced it.
		if cur, still := s.items[key]; still && cur.updated.Equal(it.updated) {
			delete(s.items, key)
			s.stats.Evictions++
			cacheEvictions.WithLabelValues(namespace(key)).Inc()
		}
		s.mu.Unlock()
		s.recordMiss(key)
		return Entry[T]{}, false
	}
	data, ok := it.data.(T)
	if !ok {
		s.recordMiss(key)
		return Entry[T]{}, false
	}
	s.recordHit(key)
	return Entry[T]{Data: data, LastCacheUpdate: it.updated}, true
}

// Put stores data under key, replacing any previous entry wholesale. It
// advances the epoch like a clear, so a fill that started before this write
// cannot overwrite it.
func Put[T any](s *Store, key string, data T) Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return Entry[T]{Data: data, LastCacheUpdate: s.putLocked(key, data)}
}

// PutIfEpoch stores data only if no clear happened since epoch was read. It
// always returns the entry built from data; stored reports whether it was kept.
func PutIfEpoch[T any](s *Store, key string, epoch uint64, data T) (entry Entry[T], stored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return Entry[T]{Data: data, LastCacheUpdate: s.now()}, false
	}
	return Entry[T]{Data: data, LastCacheUpdate: s.putLocked(key, data)}, true
}

func (s *Store) putLocked(key string, data any) time.Time {
	now := s.now()
	s.items[key] = item{data: data, updated: now}
	return now
}

// Epoch returns a counter bumped by every clear and every Put.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Clear removes the given keys. Absent keys are ignored.
func (s *Store) Clear(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	for _, k := range keys {
		delete(s.items, k)
	}
}

// ClearPattern removes every key matching the path.Match style pattern and
// returns how many were removed. A malformed pattern removes nothing.
func (s *Store) ClearPattern(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	removed := 0
	for k := range s.items {
		if ok, err := path.Match(pattern, k); err == nil && ok {
			delete(s.items, k)
			removed++
		}
	}
	return removed
}

// ClearAll empties the store.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.items = make(map[string]item)
}

// Has reports whether key is present, ignoring staleness. It does not touch stats.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

// Stats returns a snapshot of hit and miss counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.stats
	st.Keys = len(s.items)
	return st
}

func (s *Store) recordHit(key string) {
	s.mu.Lock()
	s.stats.Hits++
	s.mu.Unlock()
	cacheHits.WithLabelValues(namespace(key)).Inc()
}

func (s *Store) recordMiss(key string) {
	s.mu.Lock()
	s.stats.Misses++
	s.mu.Unlock()
	cacheMisses.WithLabelValues(namespace(key)).Inc()
}
