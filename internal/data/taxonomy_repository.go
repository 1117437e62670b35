package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	q Querier
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(q Querier) *CategoryRepository {
	return &CategoryRepository{q: q}
}

// GetAll retrieves all categories with the number of pages linked to each.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	query := `SELECT c.id, c.name, c.slug, c.description, c.parent,
		(SELECT COUNT(*) FROM page_categories pc WHERE pc.category_id = c.id) AS page_count
		FROM categories c ORDER BY c.name, c.id`
	if err := r.q.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	query := `SELECT id, name, slug, description, parent, 0 AS page_count FROM categories WHERE id = ?`
	if err := r.q.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// Insert creates a new category.
func (r *CategoryRepository) Insert(ctx context.Context, c Category) error {
	if _, err := r.q.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, description, parent) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Slug, c.Description, c.Parent); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// Update overwrites a category.
func (r *CategoryRepository) Update(ctx context.Context, c Category) error {
	if _, err := r.q.ExecContext(ctx,
		`UPDATE categories SET name = ?, slug = ?, description = ?, parent = ? WHERE id = ?`,
		c.Name, c.Slug, c.Description, c.Parent, c.ID); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes a category and its page links, moving child categories up.
// It reports whether a row was deleted.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil || category == nil {
		return false, err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM page_categories WHERE category_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to unlink category: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `UPDATE categories SET parent = ? WHERE parent = ?`, category.Parent, id); err != nil {
		return false, fmt.Errorf("failed to re-parent child categories: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return true, nil
}

// TagRepository handles database operations for tags.
type TagRepository struct {
	q Querier
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(q Querier) *TagRepository {
	return &TagRepository{q: q}
}

// GetAll retrieves all tags with the number of pages linked to each.
func (r *TagRepository) GetAll(ctx context.Context) ([]Tag, error) {
	tags := []Tag{}
	query := `SELECT t.id, t.name, t.slug, t.description,
		(SELECT COUNT(*) FROM page_tags pt WHERE pt.tag_id = t.id) AS page_count
		FROM tags t ORDER BY t.name, t.id`
	if err := r.q.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetByID finds a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	var tag Tag
	query := `SELECT id, name, slug, description, 0 AS page_count FROM tags WHERE id = ?`
	if err := r.q.GetContext(ctx, &tag, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}

// Insert creates a new tag.
func (r *TagRepository) Insert(ctx context.Context, t Tag) error {
	if _, err := r.q.ExecContext(ctx,
		`INSERT INTO tags (id, name, slug, description) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, t.Description); err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	return nil
}

// Update overwrites a tag.
func (r *TagRepository) Update(ctx context.Context, t Tag) error {
	if _, err := r.q.ExecContext(ctx,
		`UPDATE tags SET name = ?, slug = ?, description = ? WHERE id = ?`,
		t.Name, t.Slug, t.Description, t.ID); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return nil
}

// Delete removes a tag and its page links. It reports whether a row was deleted.
func (r *TagRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM page_tags WHERE tag_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to unlink tag: %w", err)
	}
	result, err := r.q.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
