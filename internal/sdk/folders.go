package sdk

import (
	"context"
	"fmt"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FolderTree is the cached folder hierarchy with the pages filed in it.
type FolderTree struct {
	Folders []*data.FolderNode `json:"folders"`
	Pages   []data.PageMeta    `json:"pages"`
}

// GetFolderList returns the flat folder list.
func (s *SDK) GetFolderList(ctx context.Context) (*cache.Entry[[]data.Folder], error) {
	return readThrough(ctx, s, cache.KeyFolderList, "list folders", func(st *data.Store) ([]data.Folder, bool, error) {
		return required(st.Folders.List(ctx))
	})
}

// GetFolderTree returns the folder hierarchy. It is built from the cached
// folder and page lists rather than queried directly.
func (s *SDK) GetFolderTree(ctx context.Context) (*cache.Entry[FolderTree], error) {
	if entry, ok := cache.Load[FolderTree](s.cache, cache.KeyFolders); ok {
		return &entry, nil
	}

	epoch := s.cache.Epoch()
	var (
		folders *cache.Entry[[]data.Folder]
		pages   *cache.Entry[[]data.PageMeta]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = s.GetFolderList(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pages, err = s.GetPages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roots, rootPages := data.BuildFolderTree(folders.Data, pages.Data)
	entry, _ := cache.PutIfEpoch(s.cache, cache.KeyFolders, epoch, FolderTree{Folders: roots, Pages: rootPages})
	return &entry, nil
}

// CreateFolder stores a new folder, generating its ID when empty.
func (s *SDK) CreateFolder(ctx context.Context, folder data.Folder) (*data.Folder, error) {
	if folder.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate folder id: %w", err)
		}
		folder.ID = id.String()
	}
	if err := validation.ValidateStruct(folder); err != nil {
		return nil, err
	}

	err := s.exec.Transaction(ctx, "create folder", func(st *data.Store) error {
		if err := checkParentFolder(ctx, st, folder); err != nil {
			return err
		}
		return st.Folders.Insert(ctx, folder)
	})
	if err != nil {
		return nil, err
	}
	s.ClearFolders()
	return &folder, nil
}

// UpdateFolder renames or moves a folder.
func (s *SDK) UpdateFolder(ctx context.Context, folder data.Folder) (*data.Folder, error) {
	if err := validation.ValidateStruct(folder); err != nil {
		return nil, err
	}

	err := s.exec.Transaction(ctx, "update folder", func(st *data.Store) error {
		existing, err := st.Folders.GetByID(ctx, folder.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.NotFound("folder", folder.ID)
		}
		if err := checkParentFolder(ctx, st, folder); err != nil {
			return err
		}
		return st.Folders.Update(ctx, folder)
	})
	if err != nil {
		return nil, err
	}
	s.ClearFolders()
	return &folder, nil
}

// DeleteFolder removes a folder. Its pages move to the root and its child
// folders move up to its parent.
func (s *SDK) DeleteFolder(ctx context.Context, id string) error {
	err := s.exec.Transaction(ctx, "delete folder", func(st *data.Store) error {
		existing, err := st.Folders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperr.NotFound("folder", id)
		}
		if _, err := st.Pages.DetachFolder(ctx, id); err != nil {
			return err
		}
		_, err = st.Folders.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.invalidate([]string{cache.KeyFolders, cache.KeyFolderList, cache.KeyPages}, cache.AllPagesPattern)
	return nil
}

// checkParentFolder rejects a missing parent and any parent that would make
// the folder its own ancestor.
func checkParentFolder(ctx context.Context, st *data.Store, folder data.Folder) error {
	seen := map[string]bool{}
	for parentID := folder.Parent; parentID != nil; {
		if *parentID == folder.ID {
			return apperr.Invalid("parent", "a folder cannot be its own ancestor")
		}
		if seen[*parentID] {
			return nil
		}
		seen[*parentID] = true
		parent, err := st.Folders.GetByID(ctx, *parentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return apperr.Invalid("parent", fmt.Sprintf("folder %q does not exist", *parentID))
		}
		parentID = parent.Parent
	}
	return nil
}
