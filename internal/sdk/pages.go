package sdk

import (
	"context"
	"fmt"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/diff"
	"go-cms-sdk/internal/validation"

	"github.com/google/uuid"
)

// GetPages returns the metadata of every page.
func (s *SDK) GetPages(ctx context.Context) (*cache.Entry[[]data.PageMeta], error) {
	return readThrough(ctx, s, cache.KeyPages, "list pages", func(st *data.Store) ([]data.PageMeta, bool, error) {
		return required(st.Pages.List(ctx))
	})
}

// GetPageByID returns a page with its content, or nil if it does not exist.
func (s *SDK) GetPageByID(ctx context.Context, id string) (*cache.Entry[data.PageData], error) {
	return readThrough(ctx, s, cache.PageKey(id), "get page", func(st *data.Store) (data.PageData, bool, error) {
		return optional(st.Pages.GetByID(ctx, id))
	})
}

// GetPageBySlug resolves slug through the cached page list and returns the
// page, or nil if no page has that slug.
func (s *SDK) GetPageBySlug(ctx context.Context, slug string) (*cache.Entry[data.PageData], error) {
	pages, err := s.GetPages(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pages.Data {
		if p.Slug == slug {
			return s.GetPageByID(ctx, p.ID)
		}
	}
	return nil, nil
}

// CreatePage stores a new page with its content. An empty ID is generated and
// an empty author defaults to userID. Creating a page records no diff.
func (s *SDK) CreatePage(ctx context.Context, userID string, page data.PageData) (*data.PageData, error) {
	meta := page.PageMeta
	if meta.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate page id: %w", err)
		}
		meta.ID = id.String()
	}
	if meta.AuthorID == "" {
		meta.AuthorID = userID
	}
	meta.UpdatedAt = s.timestamp()
	if err := validation.ValidateStruct(meta); err != nil {
		return nil, err
	}
	contents := make([]data.PageContent, 0, len(page.Contents))
	for _, c := range page.Contents {
		if c.Lang == "" {
			c.Lang = data.DefaultLang
		}
		contents = append(contents, data.PageContent{PageID: meta.ID, Lang: c.Lang, Content: c.Content})
	}

	var created *data.PageData
	err := s.exec.Transaction(ctx, "create page", func(st *data.Store) error {
		if err := checkRefs(ctx, st, meta); err != nil {
			return err
		}
		if err := st.Pages.Insert(ctx, meta, contents); err != nil {
			return err
		}
		var err error
		created, err = st.Pages.GetByID(ctx, meta.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.Put(s.cache, cache.PageKey(created.ID), *created)
	keys := []string{cache.KeyPages, cache.KeyFolders}
	if len(created.Categories) > 0 {
		keys = append(keys, cache.KeyCategories)
	}
	if len(created.Tags) > 0 {
		keys = append(keys, cache.KeyTags)
	}
	s.invalidate(keys)
	return created, nil
}

// UpdatePage applies update to page id and records the edit as a diff unless
// diffs are disabled in the site config. It implements diff.PageWriter, so
// reverts take the same path.
func (s *SDK) UpdatePage(ctx context.Context, id, userID string, update data.PageUpdate) (*data.PageData, error) {
	if update.Meta != nil {
		meta := *update.Meta
		meta.ID = id
		if err := validation.ValidateStruct(meta); err != nil {
			return nil, err
		}
	}
	for lang := range update.Content {
		if lang == "" {
			return nil, apperr.Invalid("content", "content locale must not be empty")
		}
	}

	// Read before the transaction: SQLite runs on a single connection.
	siteConfig, err := s.GetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}

	var before, after *data.PageData
	err = s.exec.Transaction(ctx, "update page", func(st *data.Store) error {
		var err error
		before, err = st.Pages.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if before == nil {
			return apperr.NotFound("page", id)
		}

		meta := before.PageMeta
		if update.Meta != nil {
			meta = *update.Meta
			meta.ID = id
			if meta.AuthorID == "" {
				meta.AuthorID = before.AuthorID
			}
			if err := checkRefs(ctx, st, meta); err != nil {
				return err
			}
		}
		meta.UpdatedAt = s.timestamp()
		if err := st.Pages.UpdateMeta(ctx, meta); err != nil {
			return err
		}
		for lang, content := range update.Content {
			if err := st.Pages.SetContent(ctx, id, lang, content); err != nil {
				return err
			}
		}

		after, err = st.Pages.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if siteConfig.Data.EnableDiffs {
			_, err = s.tracker.RecordDiff(ctx, st, id, userID, diff.SnapshotOf(before), diff.SnapshotOf(after))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.Put(s.cache, cache.PageKey(id), *after)
	// The folder tree embeds page metadata, so it is stale after any page edit.
	keys := []string{cache.KeyPages, cache.KeyFolders}
	if !sameIDs(before.Categories, after.Categories) {
		keys = append(keys, cache.KeyCategories)
	}
	if !sameIDs(before.Tags, after.Tags) {
		keys = append(keys, cache.KeyTags)
	}
	s.invalidate(keys)
	return after, nil
}

// DeletePage removes a page with its content and diff history.
func (s *SDK) DeletePage(ctx context.Context, id string) error {
	var before *data.PageData
	err := s.exec.Transaction(ctx, "delete page", func(st *data.Store) error {
		var err error
		before, err = st.Pages.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if before == nil {
			return apperr.NotFound("page", id)
		}
		_, err = st.Pages.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	keys := []string{cache.PageKey(id), cache.KeyPages, cache.KeyFolders}
	if len(before.Categories) > 0 {
		keys = append(keys, cache.KeyCategories)
	}
	if len(before.Tags) > 0 {
		keys = append(keys, cache.KeyTags)
	}
	s.invalidate(keys)
	return nil
}

// checkRefs rejects a parent folder, category or tag that does not exist.
func checkRefs(ctx context.Context, st *data.Store, meta data.PageMeta) error {
	if meta.ParentFolder != nil {
		folder, err := st.Folders.GetByID(ctx, *meta.ParentFolder)
		if err != nil {
			return err
		}
		if folder == nil {
			return apperr.Invalid("parentFolder", fmt.Sprintf("folder %q does not exist", *meta.ParentFolder))
		}
	}
	for _, id := range meta.Categories {
		category, err := st.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return apperr.Invalid("categories", fmt.Sprintf("category %d does not exist", id))
		}
	}
	for _, id := range meta.Tags {
		tag, err := st.Tags.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if tag == nil {
			return apperr.Invalid("tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}
	return nil
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int64]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
