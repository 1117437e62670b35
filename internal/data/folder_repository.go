package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FolderRepository handles database operations for folders.
type FolderRepository struct {
	q Querier
}

// NewFolderRepository creates a new FolderRepository.
func NewFolderRepository(q Querier) *FolderRepository {
	return &FolderRepository{q: q}
}

// List returns every folder ordered by name.
func (r *FolderRepository) List(ctx context.Context) ([]Folder, error) {
	folders := []Folder{}
	if err := r.q.SelectContext(ctx, &folders, `SELECT id, name, parent FROM folders ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// GetByID finds a folder by its ID.
func (r *FolderRepository) GetByID(ctx context.Context, id string) (*Folder, error) {
	var folder Folder
	if err := r.q.GetContext(ctx, &folder, `SELECT id, name, parent FROM folders WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return &folder, nil
}

// Insert creates a folder.
func (r *FolderRepository) Insert(ctx context.Context, folder Folder) error {
	if _, err := r.q.ExecContext(ctx, `INSERT INTO folders (id, name, parent) VALUES (?, ?, ?)`,
		folder.ID, folder.Name, folder.Parent); err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}
	return nil
}

// Update renames or moves a folder.
func (r *FolderRepository) Update(ctx context.Context, folder Folder) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE folders SET name = ?, parent = ? WHERE id = ?`,
		folder.Name, folder.Parent, folder.ID); err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}
	return nil
}

// Delete removes a folder, moving its child folders to the deleted folder's
// parent. It reports whether a row was deleted.
func (r *FolderRepository) Delete(ctx context.Context, id string) (bool, error) {
	folder, err := r.GetByID(ctx, id)
	if err != nil || folder == nil {
		return false, err
	}
	if _, err := r.q.ExecContext(ctx, `UPDATE folders SET parent = ? WHERE parent = ?`, folder.Parent, id); err != nil {
		return false, fmt.Errorf("failed to re-parent child folders: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete folder: %w", err)
	}
	return true, nil
}

// BuildFolderTree arranges a flat folder list into a forest and files each
// page under its parent folder. Pages without a known folder are returned
// separately as root pages.
func BuildFolderTree(folders []Folder, pages []PageMeta) ([]*FolderNode, []PageMeta) {
	nodes := make(map[string]*FolderNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &FolderNode{Folder: f, Children: []*FolderNode{}, Pages: []PageMeta{}}
	}

	roots := []*FolderNode{}
	for _, f := range folders {
		node := nodes[f.ID]
		if f.Parent != nil {
			if parent, ok := nodes[*f.Parent]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	rootPages := []PageMeta{}
	for _, p := range pages {
		if p.ParentFolder != nil {
			if node, ok := nodes[*p.ParentFolder]; ok {
				node.Pages = append(node.Pages, p)
				continue
			}
		}
		rootPages = append(rootPages, p)
	}
	return roots, rootPages
}
