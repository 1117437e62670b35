package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const diffColumns = `id, user_id, page_id, timestamp, page_meta_data, page_content_start, diff`

// DiffRepository handles the page diff history table.
type DiffRepository struct {
	q Querier
}

// NewDiffRepository creates a new DiffRepository.
func NewDiffRepository(q Querier) *DiffRepository {
	return &DiffRepository{q: q}
}

// Insert stores a new diff record.
func (r *DiffRepository) Insert(ctx context.Context, d DiffRow) error {
	query := `INSERT INTO page_diffs (` + diffColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, d.ID, d.UserID, d.PageID, d.TimestampMillis,
		d.PageMetaData, d.PageContentStart, d.Diff); err != nil {
		return fmt.Errorf("failed to insert diff: %w", err)
	}
	return nil
}

// GetByID returns one diff record, or nil if it does not exist.
func (r *DiffRepository) GetByID(ctx context.Context, id string) (*DiffRow, error) {
	var d DiffRow
	if err := r.q.GetContext(ctx, &d, `SELECT `+diffColumns+` FROM page_diffs WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get diff: %w", err)
	}
	return &d, nil
}

// ListByPage returns a page's diffs newest first, ties broken by id ascending.
// A limit of zero or less returns every record.
func (r *DiffRepository) ListByPage(ctx context.Context, pageID string, limit int) ([]DiffRow, error) {
	diffs := []DiffRow{}
	query := `SELECT ` + diffColumns + ` FROM page_diffs WHERE page_id = ? ORDER BY timestamp DESC, id ASC`
	args := []interface{}{pageID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	if err := r.q.SelectContext(ctx, &diffs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list diffs: %w", err)
	}
	return diffs, nil
}

// Prune deletes a page's oldest diffs until at most keep remain and returns
// how many were removed. Age is timestamp then id, so within one millisecond
// the later time-ordered id survives.
func (r *DiffRepository) Prune(ctx context.Context, pageID string, keep int) (int, error) {
	var ids []string
	query := `SELECT id FROM page_diffs WHERE page_id = ? ORDER BY timestamp ASC, id ASC`
	if err := r.q.SelectContext(ctx, &ids, query, pageID); err != nil {
		return 0, fmt.Errorf("failed to list diff ids: %w", err)
	}
	if keep < 0 {
		keep = 0
	}
	if len(ids) <= keep {
		return 0, nil
	}
	stale := ids[:len(ids)-keep]

	del, args, err := inClause(r.q, `DELETE FROM page_diffs WHERE id IN (?)`, stale)
	if err != nil {
		return 0, err
	}
	if _, err := r.q.ExecContext(ctx, del, args...); err != nil {
		return 0, fmt.Errorf("failed to prune diffs: %w", err)
	}
	return len(stale), nil
}

// CountByPage returns how many diffs a page has.
func (r *DiffRepository) CountByPage(ctx context.Context, pageID string) (int, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM page_diffs WHERE page_id = ?`, pageID); err != nil {
		return 0, fmt.Errorf("failed to count diffs: %w", err)
	}
	return n, nil
}
