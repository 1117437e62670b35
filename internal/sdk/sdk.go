// Package sdk is the cache-backed read/write facade over site content.
//
// Reads look up the shared cache.Store first and fall back to the database
// on a miss, storing the result. Writes commit to the database first and only
// then refresh or clear every cache key whose value could have changed. A
// failed write leaves the cache untouched.
package sdk

import (
	"context"
	"reflect"
	"time"

	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/diff"
	"go-cms-sdk/internal/logger"

	"golang.org/x/sync/singleflight"
)

// Executor runs repository work. *data.Executor implements it.
type Executor interface {
	Execute(ctx context.Context, op string, fn func(s *data.Store) error) error
	Transaction(ctx context.Context, op string, fn func(s *data.Store) error) error
}

// SDK is the single entry point for content reads and writes.
type SDK struct {
	exec    Executor
	cache   *cache.Store
	tracker *diff.Tracker
	log     logger.Logger
	group   singleflight.Group
	now     func() time.Time
}

// Option configures an SDK.
type Option func(*SDK)

// WithClock replaces time.Now for page timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SDK) { s.now = now }
}

// New wires the facade to its collaborators. The cache store is owned by the
// caller so that tests can inspect it.
func New(exec Executor, store *cache.Store, tracker *diff.Tracker, log logger.Logger, opts ...Option) *SDK {
	s := &SDK{
		exec:    exec,
		cache:   store,
		tracker: tracker,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the underlying store.
func (s *SDK) Cache() *cache.Store {
	return s.cache
}

// Tracker returns the diff tracker used for page writes.
func (s *SDK) Tracker() *diff.Tracker {
	return s.tracker
}

// readThrough serves key from the cache or loads it with fetch. Concurrent
// misses on the same key share one database call. A fetch reporting found
// as false is returned as nil and not cached.
func readThrough[T any](ctx context.Context, s *SDK, key, op string, fetch func(st *data.Store) (T, bool, error)) (*cache.Entry[T], error) {
	if entry, ok := cache.Load[T](s.cache, key); ok {
		return &entry, nil
	}

	// Keyed by type too, so callers reading one key as different types never share a result.
	flight := key + "|" + reflect.TypeFor[T]().String()
	v, err, _ := s.group.Do(flight, func() (interface{}, error) {
		epoch := s.cache.Epoch()
		var (
			out     T
			present bool
		)
		err := s.exec.Execute(ctx, op, func(st *data.Store) error {
			var err error
			out, present, err = fetch(st)
			return err
		})
		if err != nil || !present {
			return (*cache.Entry[T])(nil), err
		}
		entry, stored := cache.PutIfEpoch(s.cache, key, epoch, out)
		if !stored {
			s.log.With(map[string]interface{}{"key": key}).Debug("Discarded stale cache fill")
		}
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*cache.Entry[T]), nil
}

// optional adapts a repository lookup that returns nil for absent rows.
func optional[T any](v *T, err error) (T, bool, error) {
	if err != nil || v == nil {
		var zero T
		return zero, false, err
	}
	return *v, true, nil
}

// required adapts a repository call whose result always exists.
func required[T any](v T, err error) (T, bool, error) {
	return v, err == nil, err
}

// invalidate clears keys and patterns after a committed write.
func (s *SDK) invalidate(keys []string, patterns ...string) {
	if len(keys) > 0 {
		s.cache.Clear(keys...)
	}
	for _, p := range patterns {
		s.cache.ClearPattern(p)
	}
	s.log.With(map[string]interface{}{"keys": keys, "patterns": patterns}).Debug("Invalidated cache keys")
}

// ClearPages drops the page list and every cached page.
func (s *SDK) ClearPages() {
	s.invalidate([]string{cache.KeyPages}, cache.AllPagesPattern)
}

// ClearPage drops one cached page.
func (s *SDK) ClearPage(id string) {
	s.invalidate([]string{cache.PageKey(id)})
}

// ClearFolders drops the folder tree and the flat folder list.
func (s *SDK) ClearFolders() {
	s.invalidate([]string{cache.KeyFolders, cache.KeyFolderList})
}

// ClearTaxonomy drops the category and tag lists.
func (s *SDK) ClearTaxonomy() {
	s.invalidate([]string{cache.KeyCategories, cache.KeyTags})
}

// ClearSiteConfig drops both singleton entries.
func (s *SDK) ClearSiteConfig() {
	s.invalidate([]string{cache.KeySiteConfig, cache.KeyNotificationSettings})
}

// ClearPluginData drops every cached entry of one plugin.
func (s *SDK) ClearPluginData(pluginID string) {
	s.invalidate([]string{cache.PluginDataKey(pluginID)}, cache.PluginDataPattern(pluginID))
}

// ClearAll empties the cache.
func (s *SDK) ClearAll() {
	s.cache.ClearAll()
	s.log.Debug("Cleared entire cache")
}

func (s *SDK) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
