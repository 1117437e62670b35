package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

const pageColumns = `id, title, slug, description, package, parent_folder, draft, published_at, updated_at,
	author_id, hero_image, show_on_nav, show_author, show_contributors`

// PageRepository handles database operations for pages, their localized
// content and their taxonomy membership.
type PageRepository struct {
	q Querier
}

// NewPageRepository creates a new PageRepository.
func NewPageRepository(q Querier) *PageRepository {
	return &PageRepository{q: q}
}

// List returns the metadata of every page ordered by title.
func (r *PageRepository) List(ctx context.Context) ([]PageMeta, error) {
	var rows []pageRow
	query := `SELECT ` + pageColumns + ` FROM pages ORDER BY title, id`
	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	cats, err := r.membership(ctx, "SELECT page_id, category_id AS ref_id FROM page_categories")
	if err != nil {
		return nil, err
	}
	tags, err := r.membership(ctx, "SELECT page_id, tag_id AS ref_id FROM page_tags")
	if err != nil {
		return nil, err
	}

	pages := make([]PageMeta, len(rows))
	for i, row := range rows {
		pages[i] = row.meta()
		pages[i].Categories = nonNil(cats[row.ID])
		pages[i].Tags = nonNil(tags[row.ID])
	}
	return pages, nil
}

// GetByID returns a page with its content, or nil if it does not exist.
func (r *PageRepository) GetByID(ctx context.Context, id string) (*PageData, error) {
	return r.getOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
}

// GetBySlug returns a page with its content, or nil if it does not exist.
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*PageData, error) {
	return r.getOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
}

func (r *PageRepository) getOne(ctx context.Context, query string, arg interface{}) (*PageData, error) {
	var row pageRow
	if err := r.q.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	page := &PageData{PageMeta: row.meta()}
	if err := r.q.SelectContext(ctx, &page.Contents,
		`SELECT page_id, lang, content FROM page_contents WHERE page_id = ? ORDER BY lang`, row.ID); err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}
	if page.Contents == nil {
		page.Contents = []PageContent{}
	}

	cats, err := r.membership(ctx, "SELECT page_id, category_id AS ref_id FROM page_categories WHERE page_id = ?", row.ID)
	if err != nil {
		return nil, err
	}
	tags, err := r.membership(ctx, "SELECT page_id, tag_id AS ref_id FROM page_tags WHERE page_id = ?", row.ID)
	if err != nil {
		return nil, err
	}
	page.Categories = nonNil(cats[row.ID])
	page.Tags = nonNil(tags[row.ID])
	return page, nil
}

// Insert creates a page row, its taxonomy links and its content.
func (r *PageRepository) Insert(ctx context.Context, meta PageMeta, contents []PageContent) error {
	query := `INSERT INTO pages (` + pageColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, pageArgs(meta)...); err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	if err := r.SetCategories(ctx, meta.ID, meta.Categories); err != nil {
		return err
	}
	if err := r.SetTags(ctx, meta.ID, meta.Tags); err != nil {
		return err
	}
	for _, c := range contents {
		if err := r.SetContent(ctx, meta.ID, c.Lang, c.Content); err != nil {
			return err
		}
	}
	return nil
}

// UpdateMeta overwrites the core columns and taxonomy links of a page.
// Callers check existence first; MySQL reports zero affected rows for
// no-op updates, so the row count is not used as a not-found signal.
func (r *PageRepository) UpdateMeta(ctx context.Context, meta PageMeta) error {
	query := `UPDATE pages SET title = ?, slug = ?, description = ?, package = ?, parent_folder = ?, draft = ?,
		published_at = ?, updated_at = ?, author_id = ?, hero_image = ?, show_on_nav = ?, show_author = ?,
		show_contributors = ? WHERE id = ?`
	args := pageArgs(meta)
	args = append(args[1:], meta.ID)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	if err := r.SetCategories(ctx, meta.ID, meta.Categories); err != nil {
		return err
	}
	return r.SetTags(ctx, meta.ID, meta.Tags)
}

// SetContent replaces the content of a page for one locale.
func (r *PageRepository) SetContent(ctx context.Context, pageID, lang, content string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM page_contents WHERE page_id = ? AND lang = ?`, pageID, lang); err != nil {
		return fmt.Errorf("failed to clear page content: %w", err)
	}
	if _, err := r.q.ExecContext(ctx,
		`INSERT INTO page_contents (page_id, lang, content) VALUES (?, ?, ?)`, pageID, lang, content); err != nil {
		return fmt.Errorf("failed to insert page content: %w", err)
	}
	return nil
}

// SetCategories replaces the category links of a page.
func (r *PageRepository) SetCategories(ctx context.Context, pageID string, ids []int64) error {
	return r.setLinks(ctx, "page_categories", "category_id", pageID, ids)
}

// SetTags replaces the tag links of a page.
func (r *PageRepository) SetTags(ctx context.Context, pageID string, ids []int64) error {
	return r.setLinks(ctx, "page_tags", "tag_id", pageID, ids)
}

func (r *PageRepository) setLinks(ctx context.Context, table, column, pageID string, ids []int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM `+table+` WHERE page_id = ?`, pageID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	for _, id := range dedupe(ids) {
		if _, err := r.q.ExecContext(ctx,
			`INSERT INTO `+table+` (page_id, `+column+`) VALUES (?, ?)`, pageID, id); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// Delete removes a page with its content, links and diff history.
// It reports whether a page row was deleted.
func (r *PageRepository) Delete(ctx context.Context, id string) (bool, error) {
	for _, table := range []string{"page_contents", "page_categories", "page_tags", "page_diffs"} {
		if _, err := r.q.ExecContext(ctx, `DELETE FROM `+table+` WHERE page_id = ?`, id); err != nil {
			return false, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	result, err := r.q.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete page: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DetachFolder moves every page filed under folderID to the root and
// returns how many pages moved.
func (r *PageRepository) DetachFolder(ctx context.Context, folderID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `UPDATE pages SET parent_folder = NULL WHERE parent_folder = ?`, folderID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach pages from folder: %w", err)
	}
	return result.RowsAffected()
}

type membershipRow struct {
	PageID string `db:"page_id"`
	RefID  int64  `db:"ref_id"`
}

func (r *PageRepository) membership(ctx context.Context, query string, args ...interface{}) (map[string][]int64, error) {
	var rows []membershipRow
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load page taxonomy: %w", err)
	}
	out := make(map[string][]int64)
	for _, row := range rows {
		out[row.PageID] = append(out[row.PageID], row.RefID)
	}
	for k := range out {
		sort.Slice(out[k], func(i, j int) bool { return out[k][i] < out[k][j] })
	}
	return out, nil
}

func pageArgs(m PageMeta) []interface{} {
	var published *int64
	if m.PublishedAt != nil {
		v := toMillis(*m.PublishedAt)
		published = &v
	}
	return []interface{}{
		m.ID, m.Title, m.Slug, m.Description, m.Package, m.ParentFolder, m.Draft, published,
		toMillis(m.UpdatedAt), m.AuthorID, m.HeroImage, m.ShowOnNav, m.ShowAuthor, m.ShowContributors,
	}
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
