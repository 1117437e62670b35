//go:build integration

package sdk

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/config"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/diff"
	"go-cms-sdk/internal/logger"
	"go-cms-sdk/internal/testinfra"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingExecutor counts database round trips made by the facade.
type countingExecutor struct {
	inner *data.Executor

	mu         sync.Mutex
	reads      int
	writes     int
	beforeRead func()
	afterRead  func()
}

func (c *countingExecutor) Execute(ctx context.Context, op string, fn func(s *data.Store) error) error {
	c.mu.Lock()
	c.reads++
	hook := c.beforeRead
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	err := c.inner.Execute(ctx, op, fn)
	c.mu.Lock()
	after := c.afterRead
	c.mu.Unlock()
	if after != nil {
		after()
	}
	return err
}

func (c *countingExecutor) Transaction(ctx context.Context, op string, fn func(s *data.Store) error) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.inner.Transaction(ctx, op, fn)
}

func (c *countingExecutor) Reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	db    *sqlx.DB
	exec  *countingExecutor
	store *cache.Store
	sdk   *SDK
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, testinfra.NewSQLiteDB(t))
}

func newFixtureOn(t *testing.T, db *sqlx.DB) *fixture {
	t.Helper()
	exec := data.NewExecutor(db)
	clock := &tickClock{t: time.UnixMilli(1_700_000_000_000).UTC()}
	counter := &countingExecutor{inner: exec}
	store := cache.New(config.CacheConfig{TTL: time.Minute})
	tracker := diff.NewTracker(exec, config.DiffConfig{MaxPerPage: 3}, logger.Nop(), diff.WithClock(clock.Now))
	return &fixture{
		db:    db,
		exec:  counter,
		store: store,
		sdk:   New(counter, store, tracker, logger.Nop(), WithClock(clock.Now)),
	}
}

func (f *fixture) seedTaxonomy(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, c := range []data.Category{{ID: 1, Name: "News", Slug: "news"}, {ID: 2, Name: "Guides", Slug: "guides"}} {
		_, err := f.sdk.CreateCategory(ctx, c)
		require.NoError(t, err)
	}
	_, err := f.sdk.CreateTag(ctx, data.Tag{ID: 10, Name: "Go", Slug: "go"})
	require.NoError(t, err)
}

func (f *fixture) createPage(t *testing.T, id, title, content string, categories ...int64) *data.PageData {
	t.Helper()
	page, err := f.sdk.CreatePage(context.Background(), "author", data.PageData{
		PageMeta: data.PageMeta{ID: id, Title: title, Slug: "slug-" + id, Package: "core", Categories: categories},
		Contents: []data.PageContent{{Content: content}},
	})
	require.NoError(t, err)
	return page
}

func TestSDK_MissThenHit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Home", "welcome")
	f.sdk.ClearAll()

	reads := f.exec.Reads()
	first, err := f.sdk.GetPages(ctx)
	require.NoError(t, err)
	require.Len(t, first.Data, 1)
	assert.Equal(t, reads+1, f.exec.Reads(), "first read goes to the database")

	second, err := f.sdk.GetPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, reads+1, f.exec.Reads(), "second read is served from cache")
	assert.Equal(t, first.LastCacheUpdate, second.LastCacheUpdate)

	for _, read := range []func() error{
		func() error { _, err := f.sdk.GetPageByID(ctx, "p1"); return err },
		func() error { _, err := f.sdk.GetCategories(ctx); return err },
		func() error { _, err := f.sdk.GetTags(ctx); return err },
		func() error { _, err := f.sdk.GetFolderList(ctx); return err },
		func() error { _, err := f.sdk.GetNotificationSettings(ctx); return err },
	} {
		before := f.exec.Reads()
		require.NoError(t, read())
		require.NoError(t, read())
		assert.Equal(t, before+1, f.exec.Reads())
	}
}

func TestSDK_MissingPageIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.sdk.GetPageByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.False(t, f.store.Has(cache.PageKey("missing")))

	bySlug, err := f.sdk.GetPageBySlug(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Nil(t, bySlug)
}

func TestSDK_WriteThenReadIsCoherent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Home", "welcome")

	_, err := f.sdk.GetPages(ctx)
	require.NoError(t, err)

	title := "Start Here"
	meta := data.PageMeta{Title: title, Slug: "start-here", Package: "core"}
	_, err = f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{
		Meta:    &meta,
		Content: map[string]string{data.DefaultLang: "hello again"},
	})
	require.NoError(t, err)

	reads := f.exec.Reads()
	page, err := f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, reads, f.exec.Reads(), "updated page is refreshed eagerly")
	assert.Equal(t, title, page.Data.Title)
	assert.Equal(t, "hello again", page.Data.ContentFor(data.DefaultLang))
	assert.Equal(t, "author", page.Data.AuthorID, "author is kept when the update leaves it empty")

	pages, err := f.sdk.GetPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages.Data, 1)
	assert.Equal(t, title, pages.Data[0].Title)

	bySlug, err := f.sdk.GetPageBySlug(ctx, "start-here")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, "p1", bySlug.Data.ID)
}

func TestSDK_FailedWriteLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Home", "welcome")
	_, err := f.sdk.GetPages(ctx)
	require.NoError(t, err)
	_, err = f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)

	_, err = f.sdk.UpdatePage(ctx, "missing", "editor", data.PageUpdate{Content: map[string]string{data.DefaultLang: "x"}})
	assert.True(t, apperr.IsNotFound(err))

	bad := data.PageMeta{Title: "", Slug: "Not A Slug", Package: "core"}
	_, err = f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{Meta: &bad})
	assert.True(t, apperr.IsValidation(err))

	// Duplicate slug is rejected by the database.
	_, err = f.sdk.CreatePage(ctx, "author", data.PageData{
		PageMeta: data.PageMeta{ID: "p2", Title: "Other", Slug: "slug-p1", Package: "core"},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsDatabase(err))

	assert.True(t, f.store.Has(cache.KeyPages))
	assert.True(t, f.store.Has(cache.PageKey("p1")))
	assert.False(t, f.store.Has(cache.PageKey("p2")))
}

func TestSDK_CategoryChangeInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTaxonomy(t)
	f.createPage(t, "p1", "Home", "welcome", 1)

	for _, warm := range []func() error{
		func() error { _, err := f.sdk.GetPageByID(ctx, "p1"); return err },
		func() error { _, err := f.sdk.GetCategories(ctx); return err },
		func() error { _, err := f.sdk.GetTags(ctx); return err },
		func() error { _, err := f.sdk.GetSiteConfig(ctx); return err },
	} {
		require.NoError(t, warm())
	}

	meta := data.PageMeta{Title: "Home", Slug: "slug-p1", Package: "core", Categories: []int64{2}}
	_, err := f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{Meta: &meta})
	require.NoError(t, err)

	assert.False(t, f.store.Has(cache.KeyCategories), "categories must be invalidated")
	assert.True(t, f.store.Has(cache.KeySiteConfig), "siteConfig must survive")
	assert.True(t, f.store.Has(cache.KeyTags), "unchanged tags must survive")

	page, ok := cache.Load[data.PageData](f.store, cache.PageKey("p1"))
	require.True(t, ok)
	assert.Equal(t, []int64{2}, page.Data.Categories)

	categories, err := f.sdk.GetCategories(ctx)
	require.NoError(t, err)
	counts := map[int64]int{}
	for _, c := range categories.Data {
		counts[c.ID] = c.PageCount
	}
	assert.Equal(t, map[int64]int{1: 0, 2: 1}, counts)
}

func TestSDK_RetentionCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Home", "v0")

	for _, body := range []string{"v1", "v2", "v3", "v4", "v5"} {
		_, err := f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{Content: map[string]string{data.DefaultLang: body}})
		require.NoError(t, err)
	}

	diffs, err := f.sdk.Tracker().AllByPageID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, diffs, f.sdk.Tracker().MaxPerPage())
	assert.Equal(t, "v4", diffs[0].PageContentStart)
	assert.Equal(t, "v2", diffs[2].PageContentStart)
}

func TestSDK_RevertToDiff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTaxonomy(t)
	s0 := f.createPage(t, "p1", "Original", "first body", 1)

	s1meta := data.PageMeta{Title: "Edited", Slug: "edited", Package: "core", Categories: []int64{2}, Tags: []int64{10}}
	_, err := f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{
		Meta:    &s1meta,
		Content: map[string]string{data.DefaultLang: "second body"},
	})
	require.NoError(t, err)

	latest, err := f.sdk.GetDiffs(ctx, "p1", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	editID := latest[0].ID

	_, err = f.sdk.RevertToDiff(ctx, editID, diff.ScopeBoth, "admin")
	require.NoError(t, err)

	page, err := f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, s0.Title, page.Data.Title)
	assert.Equal(t, s0.Slug, page.Data.Slug)
	assert.Equal(t, s0.Categories, page.Data.Categories)
	assert.Equal(t, s0.Tags, page.Data.Tags)
	assert.Equal(t, "first body", page.Data.ContentFor(data.DefaultLang))

	all, err := f.sdk.GetDiffs(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotEqual(t, editID, all[0].ID, "the revert is recorded as a new diff")
	assert.Equal(t, "admin", all[0].UserID)
	assert.Equal(t, "Edited", all[0].PageMetaData.Start.Title)
	assert.Equal(t, "Original", all[0].PageMetaData.End.Title)

	_, err = f.sdk.RevertToDiff(ctx, "missing", diff.ScopeBoth, "admin")
	assert.True(t, apperr.IsNotFound(err))
}

func TestSDK_RevertAfterPageDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Original", "body")
	_, err := f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{Content: map[string]string{data.DefaultLang: "changed"}})
	require.NoError(t, err)
	diffs, err := f.sdk.GetDiffs(ctx, "p1", 1)
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	require.NoError(t, f.sdk.DeletePage(ctx, "p1"))
	assert.False(t, f.store.Has(cache.PageKey("p1")))

	_, err = f.sdk.RevertToDiff(ctx, diffs[0].ID, diff.ScopeContent, "admin")
	assert.True(t, apperr.IsNotFound(err), "diff history goes with its page")

	assert.True(t, apperr.IsNotFound(f.sdk.DeletePage(ctx, "p1")))
}

func TestSDK_DiffsDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Home", "body")

	cfg, err := f.sdk.GetSiteConfig(ctx)
	require.NoError(t, err)
	updated := cfg.Data
	updated.EnableDiffs = false
	_, err = f.sdk.UpdateSiteConfig(ctx, updated)
	require.NoError(t, err)

	_, err = f.sdk.UpdatePage(ctx, "p1", "editor", data.PageUpdate{Content: map[string]string{data.DefaultLang: "new"}})
	require.NoError(t, err)

	diffs, err := f.sdk.GetDiffs(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestSDK_SiteConfigSingleton(t *testing.T) {
	db := testinfra.NewSQLiteDB(t)
	// Separate facades do not share a cache or singleflight group, so each
	// one runs its own get-or-create against the empty table.
	facades := []*fixture{newFixtureOn(t, db), newFixtureOn(t, db), newFixtureOn(t, db)}

	var wg sync.WaitGroup
	results := make([]*cache.Entry[data.SiteConfig], len(facades)*4)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = facades[i%len(facades)].sdk.GetSiteConfig(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, data.DefaultSiteConfig(), results[i].Data)
	}

	var rows int
	require.NoError(t, db.Get(&rows, `SELECT COUNT(*) FROM site_config`))
	assert.Equal(t, 1, rows)
}

func TestSDK_UpdateSiteConfigRefreshesEagerly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cfg := data.DefaultSiteConfig()
	cfg.Title = "Docs"
	_, err := f.sdk.UpdateSiteConfig(ctx, cfg)
	require.NoError(t, err)

	reads := f.exec.Reads()
	got, err := f.sdk.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, reads, f.exec.Reads())
	assert.Equal(t, "Docs", got.Data.Title)

	cfg.Title = ""
	_, err = f.sdk.UpdateSiteConfig(ctx, cfg)
	assert.True(t, apperr.IsValidation(err))

	settings := data.DefaultNotificationSettings()
	settings.RequireAdminVerification = true
	_, err = f.sdk.UpdateNotificationSettings(ctx, settings)
	require.NoError(t, err)
	gotSettings, err := f.sdk.GetNotificationSettings(ctx)
	require.NoError(t, err)
	assert.True(t, gotSettings.Data.RequireAdminVerification)
}

func TestSDK_FolderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	docs, err := f.sdk.CreateFolder(ctx, data.Folder{Name: "Docs"})
	require.NoError(t, err)
	require.NotEmpty(t, docs.ID)
	api, err := f.sdk.CreateFolder(ctx, data.Folder{ID: "api", Name: "API", Parent: &docs.ID})
	require.NoError(t, err)

	_, err = f.sdk.CreatePage(ctx, "author", data.PageData{
		PageMeta: data.PageMeta{ID: "p1", Title: "Auth", Slug: "auth", Package: "core", ParentFolder: &api.ID},
	})
	require.NoError(t, err)
	f.createPage(t, "p2", "Root page", "")

	tree, err := f.sdk.GetFolderTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree.Data.Folders, 1)
	require.Len(t, tree.Data.Folders[0].Children, 1)
	assert.Equal(t, "p1", tree.Data.Folders[0].Children[0].Pages[0].ID)
	require.Len(t, tree.Data.Pages, 1)

	_, err = f.sdk.UpdateFolder(ctx, data.Folder{ID: docs.ID, Name: "Docs", Parent: &api.ID})
	assert.True(t, apperr.IsValidation(err), "moving a folder under its own child is rejected")

	_, err = f.sdk.UpdateFolder(ctx, data.Folder{ID: "ghost", Name: "Ghost"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, f.sdk.DeleteFolder(ctx, "api"))
	assert.False(t, f.store.Has(cache.KeyFolders))
	assert.False(t, f.store.Has(cache.PageKey("p1")))

	page, err := f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, page.Data.ParentFolder)

	tree, err = f.sdk.GetFolderTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree.Data.Folders, 1)
	assert.Empty(t, tree.Data.Folders[0].Children)
	assert.Len(t, tree.Data.Pages, 2)
}

func TestSDK_TaxonomyDeleteClearsPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTaxonomy(t)
	f.createPage(t, "p1", "Home", "", 1)

	_, err := f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, f.sdk.DeleteCategory(ctx, 1))
	assert.False(t, f.store.Has(cache.PageKey("p1")))

	page, err := f.sdk.GetPageByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, page.Data.Categories)

	assert.True(t, apperr.IsNotFound(f.sdk.DeleteCategory(ctx, 1)))
	assert.True(t, apperr.IsNotFound(f.sdk.DeleteTag(ctx, 99)))

	_, err = f.sdk.UpdateTag(ctx, data.Tag{ID: 99, Name: "x", Slug: "x"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.sdk.CreatePage(ctx, "author", data.PageData{
		PageMeta: data.PageMeta{Title: "Bad", Slug: "bad", Package: "core", Tags: []int64{42}},
	})
	assert.True(t, apperr.IsValidation(err))
}

func TestSDK_StaleFillIsDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPage(t, "p1", "Home", "")
	f.sdk.ClearAll()

	started := make(chan struct{})
	release := make(chan struct{})
	f.exec.mu.Lock()
	f.exec.beforeRead = func() {
		close(started)
		<-release
	}
	f.exec.mu.Unlock()

	done := make(chan error)
	go func() {
		_, err := f.sdk.GetPages(ctx)
		done <- err
	}()

	<-started
	f.exec.mu.Lock()
	f.exec.beforeRead = nil
	f.exec.mu.Unlock()
	f.sdk.ClearPages()
	close(release)
	require.NoError(t, <-done)

	assert.False(t, f.store.Has(cache.KeyPages), "a fill that raced a clear must not be stored")
}

func TestSDK_EagerRefreshBeatsInFlightFill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sdk.ClearSiteConfig()

	read := make(chan struct{})
	release := make(chan struct{})
	f.exec.mu.Lock()
	f.exec.afterRead = func() {
		close(read)
		<-release
	}
	f.exec.mu.Unlock()

	done := make(chan error)
	go func() {
		// This miss reads the default row and stalls before storing it.
		_, err := f.sdk.GetSiteConfig(ctx)
		done <- err
	}()

	<-read
	f.exec.mu.Lock()
	f.exec.afterRead = nil
	f.exec.mu.Unlock()

	cfg := data.DefaultSiteConfig()
	cfg.Title = "New Title"
	_, err := f.sdk.UpdateSiteConfig(ctx, cfg)
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	got, err := f.sdk.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Data.Title, "an older fill must not overwrite the committed update")
}

// collidingQuerier inserts a competing site config row right before the
// facade's own insert, as another process winning the race would.
type collidingQuerier struct {
	*sqlx.DB
	once   sync.Once
	winner data.SiteConfig
}

func (q *collidingQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT INTO site_config") {
		var err error
		q.once.Do(func() { err = data.NewStore(q.DB).SiteConfig.Insert(ctx, q.winner) })
		if err != nil {
			return nil, err
		}
	}
	return q.DB.ExecContext(ctx, query, args...)
}

type collidingExecutor struct {
	q *collidingQuerier
}

func (e *collidingExecutor) Execute(ctx context.Context, op string, fn func(s *data.Store) error) error {
	return apperr.WrapDB(op, fn(data.NewStore(e.q)))
}

func (e *collidingExecutor) Transaction(ctx context.Context, op string, fn func(s *data.Store) error) error {
	return e.Execute(ctx, op, fn)
}

func TestSDK_SiteConfigInsertCollision(t *testing.T) {
	db := testinfra.NewSQLiteDB(t)
	ctx := context.Background()

	winner := data.DefaultSiteConfig()
	winner.Title = "Created Elsewhere"
	exec := &collidingExecutor{q: &collidingQuerier{DB: db, winner: winner}}
	tracker := diff.NewTracker(data.NewExecutor(db), config.DiffConfig{}, logger.Nop())
	s := New(exec, cache.New(config.CacheConfig{TTL: time.Minute}), tracker, logger.Nop())

	got, err := s.GetSiteConfig(ctx)
	require.NoError(t, err, "a duplicate insert must fall back to reading the winner's row")
	assert.Equal(t, "Created Elsewhere", got.Data.Title)

	var rows int
	require.NoError(t, db.Get(&rows, `SELECT COUNT(*) FROM site_config`))
	assert.Equal(t, 1, rows)

	cached, err := s.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, got.LastCacheUpdate, cached.LastCacheUpdate)
}

type seoEntry struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

func TestSDK_PluginData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seo := PluginData[seoEntry](f.sdk, "seo")

	missing, err := seo.Get(ctx, "home")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, seo.Upsert(ctx, "home", seoEntry{Title: "Home", Keywords: []string{"cms"}}))

	reads := f.exec.Reads()
	got, err := seo.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Data.Title)
	_, err = seo.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, reads+1, f.exec.Reads())

	list, err := seo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)

	require.NoError(t, seo.Upsert(ctx, "home", seoEntry{Title: "Welcome"}))
	assert.False(t, f.store.Has(cache.PluginDataKey("seo")))
	got, err = seo.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", got.Data.Title)

	require.NoError(t, seo.Delete(ctx, "home"))
	assert.True(t, apperr.IsNotFound(seo.Delete(ctx, "home")))
	assert.True(t, apperr.IsValidation(seo.Upsert(ctx, "", seoEntry{})))

	require.NoError(t, seo.Upsert(ctx, "about", seoEntry{Title: "About"}))
	_, err = seo.List(ctx)
	require.NoError(t, err)
	f.sdk.ClearPluginData("seo")
	assert.False(t, f.store.Has(cache.PluginDataKey("seo")))
}
