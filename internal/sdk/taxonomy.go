package sdk

import (
	"context"
	"fmt"
	"strconv"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/validation"
)

// GetCategories returns every category with its page count.
func (s *SDK) GetCategories(ctx context.Context) (*cache.Entry[[]data.Category], error) {
	return readThrough(ctx, s, cache.KeyCategories, "list categories", func(st *data.Store) ([]data.Category, bool, error) {
		return required(st.Categories.GetAll(ctx))
	})
}

// CreateCategory stores a new category under its caller-assigned ID.
func (s *SDK) CreateCategory(ctx context.Context, c data.Category) (*data.Category, error) {
	if err := validation.ValidateStruct(c); err != nil {
		return nil, err
	}
	err := s.exec.Transaction(ctx, "create category", func(st *data.Store) error {
		if err := checkParentCategory(ctx, st, c); err != nil {
			return err
		}
		return st.Categories.Insert(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{cache.KeyCategories})
	return &c, nil
}

// UpdateCategory overwrites an existing category.
func (s *SDK) UpdateCategory(ctx context.Context, c data.Category) (*data.Category, error) {
	if err := validation.ValidateStruct(c); err != nil {
		return nil, err
	}
	err := s.exec.Transaction(ctx, "update category", func(st *data.Store) error {
		existing, err := st.Categories.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.NotFound("category", strconv.FormatInt(c.ID, 10))
		}
		if err := checkParentCategory(ctx, st, c); err != nil {
			return err
		}
		return st.Categories.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{cache.KeyCategories})
	return &c, nil
}

// DeleteCategory removes a category and unlinks it from every page.
func (s *SDK) DeleteCategory(ctx context.Context, id int64) error {
	err := s.exec.Transaction(ctx, "delete category", func(st *data.Store) error {
		deleted, err := st.Categories.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("category", strconv.FormatInt(id, 10))
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Cached pages carry their category ids.
	s.invalidate([]string{cache.KeyCategories, cache.KeyPages, cache.KeyFolders}, cache.AllPagesPattern)
	return nil
}

// GetTags returns every tag with its page count.
func (s *SDK) GetTags(ctx context.Context) (*cache.Entry[[]data.Tag], error) {
	return readThrough(ctx, s, cache.KeyTags, "list tags", func(st *data.Store) ([]data.Tag, bool, error) {
		return required(st.Tags.GetAll(ctx))
	})
}

// CreateTag stores a new tag under its caller-assigned ID.
func (s *SDK) CreateTag(ctx context.Context, t data.Tag) (*data.Tag, error) {
	if err := validation.ValidateStruct(t); err != nil {
		return nil, err
	}
	err := s.exec.Transaction(ctx, "create tag", func(st *data.Store) error {
		return st.Tags.Insert(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{cache.KeyTags})
	return &t, nil
}

// UpdateTag overwrites an existing tag.
func (s *SDK) UpdateTag(ctx context.Context, t data.Tag) (*data.Tag, error) {
	if err := validation.ValidateStruct(t); err != nil {
		return nil, err
	}
	err := s.exec.Transaction(ctx, "update tag", func(st *data.Store) error {
		existing, err := st.Tags.GetByID(ctx, t.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.NotFound("tag", strconv.FormatInt(t.ID, 10))
		}
		return st.Tags.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate([]string{cache.KeyTags})
	return &t, nil
}

// DeleteTag removes a tag and unlinks it from every page.
func (s *SDK) DeleteTag(ctx context.Context, id int64) error {
	err := s.exec.Transaction(ctx, "delete tag", func(st *data.Store) error {
		deleted, err := st.Tags.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("tag", strconv.FormatInt(id, 10))
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate([]string{cache.KeyTags, cache.KeyPages, cache.KeyFolders}, cache.AllPagesPattern)
	return nil
}

func checkParentCategory(ctx context.Context, st *data.Store, c data.Category) error {
	if c.Parent == nil {
		return nil
	}
	if *c.Parent == c.ID {
		return apperr.Invalid("parent", "a category cannot be its own parent")
	}
	parent, err := st.Categories.GetByID(ctx, *c.Parent)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperr.Invalid("parent", fmt.Sprintf("category %d does not exist", *c.Parent))
	}
	return nil
}
