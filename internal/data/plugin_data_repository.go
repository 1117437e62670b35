package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PluginDataRepository stores opaque JSON payloads owned by plugins.
type PluginDataRepository struct {
	q Querier
}

// NewPluginDataRepository creates a new PluginDataRepository.
func NewPluginDataRepository(q Querier) *PluginDataRepository {
	return &PluginDataRepository{q: q}
}

// List returns every entry of a plugin ordered by entry id.
func (r *PluginDataRepository) List(ctx context.Context, pluginID string) ([]PluginDataRow, error) {
	rows := []PluginDataRow{}
	query := `SELECT plugin_id, entry_id, data FROM plugin_data WHERE plugin_id = ? ORDER BY entry_id`
	if err := r.q.SelectContext(ctx, &rows, query, pluginID); err != nil {
		return nil, fmt.Errorf("failed to list plugin data: %w", err)
	}
	return rows, nil
}

// Get returns one entry, or nil if it does not exist.
func (r *PluginDataRepository) Get(ctx context.Context, pluginID, entryID string) (*PluginDataRow, error) {
	var row PluginDataRow
	query := `SELECT plugin_id, entry_id, data FROM plugin_data WHERE plugin_id = ? AND entry_id = ?`
	if err := r.q.GetContext(ctx, &row, query, pluginID, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plugin data: %w", err)
	}
	return &row, nil
}

// Upsert replaces an entry's payload, creating it if needed.
func (r *PluginDataRepository) Upsert(ctx context.Context, row PluginDataRow) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM plugin_data WHERE plugin_id = ? AND entry_id = ?`,
		row.PluginID, row.EntryID); err != nil {
		return fmt.Errorf("failed to clear plugin data: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, `INSERT INTO plugin_data (plugin_id, entry_id, data) VALUES (?, ?, ?)`,
		row.PluginID, row.EntryID, row.Data); err != nil {
		return fmt.Errorf("failed to insert plugin data: %w", err)
	}
	return nil
}

// Delete removes an entry and reports whether it existed.
func (r *PluginDataRepository) Delete(ctx context.Context, pluginID, entryID string) (bool, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM plugin_data WHERE plugin_id = ? AND entry_id = ?`, pluginID, entryID)
	if err != nil {
		return false, fmt.Errorf("failed to delete plugin data: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
