package sdk

import (
	"context"
	"fmt"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"

	"github.com/goccy/go-json"
)

// PluginStore is a typed view of one plugin's stored entries. The payload
// shape T is chosen by the plugin and stored as JSON.
type PluginStore[T any] struct {
	sdk      *SDK
	pluginID string
}

// PluginData returns the accessor for pluginID's entries decoded as T.
func PluginData[T any](s *SDK, pluginID string) *PluginStore[T] {
	return &PluginStore[T]{sdk: s, pluginID: pluginID}
}

// Get returns one entry, or nil if it does not exist.
func (p *PluginStore[T]) Get(ctx context.Context, entryID string) (*cache.Entry[T], error) {
	if err := p.check(entryID); err != nil {
		return nil, err
	}
	return readThrough(ctx, p.sdk, cache.PluginDataKey(p.pluginID, entryID), "get plugin data",
		func(st *data.Store) (T, bool, error) {
			var zero T
			row, err := st.PluginData.Get(ctx, p.pluginID, entryID)
			if err != nil || row == nil {
				return zero, false, err
			}
			v, err := p.decode(*row)
			return v, err == nil, err
		})
}

// List returns every entry of the plugin keyed by entry ID.
func (p *PluginStore[T]) List(ctx context.Context) (*cache.Entry[map[string]T], error) {
	if p.pluginID == "" {
		return nil, apperr.Invalid("pluginId", "plugin id must not be empty")
	}
	return readThrough(ctx, p.sdk, cache.PluginDataKey(p.pluginID), "list plugin data",
		func(st *data.Store) (map[string]T, bool, error) {
			rows, err := st.PluginData.List(ctx, p.pluginID)
			if err != nil {
				return nil, false, err
			}
			out := make(map[string]T, len(rows))
			for _, row := range rows {
				v, err := p.decode(row)
				if err != nil {
					return nil, false, err
				}
				out[row.EntryID] = v
			}
			return out, true, nil
		})
}

// Upsert stores v as entryID, replacing any previous payload.
func (p *PluginStore[T]) Upsert(ctx context.Context, entryID string, v T) error {
	if err := p.check(entryID); err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return apperr.Invalid("data", fmt.Sprintf("payload cannot be encoded: %v", err))
	}
	err = p.sdk.exec.Transaction(ctx, "upsert plugin data", func(st *data.Store) error {
		return st.PluginData.Upsert(ctx, data.PluginDataRow{PluginID: p.pluginID, EntryID: entryID, Data: string(payload)})
	})
	if err != nil {
		return err
	}
	p.invalidate(entryID)
	return nil
}

// Delete removes entryID.
func (p *PluginStore[T]) Delete(ctx context.Context, entryID string) error {
	if err := p.check(entryID); err != nil {
		return err
	}
	err := p.sdk.exec.Execute(ctx, "delete plugin data", func(st *data.Store) error {
		deleted, err := st.PluginData.Delete(ctx, p.pluginID, entryID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("plugin data", p.pluginID+":"+entryID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.invalidate(entryID)
	return nil
}

func (p *PluginStore[T]) invalidate(entryID string) {
	p.sdk.invalidate([]string{cache.PluginDataKey(p.pluginID), cache.PluginDataKey(p.pluginID, entryID)})
}

func (p *PluginStore[T]) check(entryID string) error {
	if p.pluginID == "" {
		return apperr.Invalid("pluginId", "plugin id must not be empty")
	}
	if entryID == "" {
		return apperr.Invalid("entryId", "entry id must not be empty")
	}
	return nil
}

func (p *PluginStore[T]) decode(row data.PluginDataRow) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(row.Data), &v); err != nil {
		return v, &apperr.DecodeError{ID: row.PluginID + ":" + row.EntryID, Err: err}
	}
	return v, nil
}
