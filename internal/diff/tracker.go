package diff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/config"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/logger"

	"github.com/google/uuid"
)

// Snapshot is the tracked state of a page at one point in time: its metadata
// and the content of the default locale.
type Snapshot struct {
	Meta    data.PageMeta
	Content string
}

// SnapshotOf captures the tracked state of p.
func SnapshotOf(p *data.PageData) Snapshot {
	return Snapshot{Meta: p.PageMeta, Content: p.ContentFor(data.DefaultLang)}
}

// Record is a decoded diff record. When the stored metadata cannot be parsed
// the record is still returned with DecodeErr set and PageMetaData zeroed.
type Record struct {
	ID               string       `json:"id"`
	UserID           string       `json:"userId"`
	PageID           string       `json:"pageId"`
	Timestamp        time.Time    `json:"timestamp"`
	PageMetaData     PageMetaData `json:"pageMetaData"`
	PageContentStart string       `json:"pageContentStart"`
	Diff             *string      `json:"diff"`
	Corrupt          bool         `json:"corrupt,omitempty"`
	DecodeErr        error        `json:"-"`
}

// Scope selects which part of a page a revert restores.
type Scope string

const (
	ScopeData    Scope = "data"
	ScopeContent Scope = "content"
	ScopeBoth    Scope = "both"
)

// ParseScope validates a revert scope, defaulting an empty value to both.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(s)) {
	case "", ScopeBoth:
		return ScopeBoth, nil
	case ScopeData:
		return ScopeData, nil
	case ScopeContent:
		return ScopeContent, nil
	}
	return "", apperr.Invalid("scope", fmt.Sprintf("scope must be one of data, content or both, got %q", s))
}

// PageWriter is the facade's page update path. Reverts go through it so they
// are validated, tracked and invalidated like any other edit.
type PageWriter interface {
	UpdatePage(ctx context.Context, id, userID string, update data.PageUpdate) (*data.PageData, error)
}

// Tracker records page edits and reads them back.
type Tracker struct {
	exec       *data.Executor
	maxPerPage int
	log        logger.Logger
	now        func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a Tracker keeping at most cfg.MaxPerPage records per page.
func NewTracker(exec *data.Executor, cfg config.DiffConfig, log logger.Logger, opts ...Option) *Tracker {
	maxPerPage := cfg.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = config.DefaultDiffMaxPerPage
	}
	t := &Tracker{exec: exec, maxPerPage: maxPerPage, log: log, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MaxPerPage returns the retention cap.
func (t *Tracker) MaxPerPage() int {
	return t.maxPerPage
}

// RecordDiff stores the edit before -> after of pageID and prunes the page's
// history down to the retention cap. It runs on s so that the record and the
// prune commit together with the page write that caused them.
func (t *Tracker) RecordDiff(ctx context.Context, s *data.Store, pageID, userID string, before, after Snapshot) (*Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate diff id: %w", err)
	}
	meta := PageMetaData{Start: before.Meta, End: after.Meta}
	encoded, err := EncodeMetaData(meta)
	if err != nil {
		return nil, err
	}

	var patch *string
	if before.Content != after.Content {
		p := CreatePatch(before.Content, after.Content)
		patch = &p
	}

	row := data.DiffRow{
		ID:               id.String(),
		UserID:           userID,
		PageID:           pageID,
		TimestampMillis:  t.now().UTC().UnixMilli(),
		PageMetaData:     encoded,
		PageContentStart: before.Content,
		Diff:             patch,
	}
	if err := s.Diffs.Insert(ctx, row); err != nil {
		return nil, err
	}

	pruned, err := s.Diffs.Prune(ctx, pageID, t.maxPerPage)
	if err != nil {
		return nil, err
	}
	if pruned > 0 {
		t.log.With(map[string]interface{}{"page_id": pageID, "pruned": pruned}).
			Info("Pruned diff history beyond retention cap")
	}

	return &Record{
		ID:               row.ID,
		UserID:           row.UserID,
		PageID:           row.PageID,
		Timestamp:        row.Timestamp(),
		PageMetaData:     meta,
		PageContentStart: row.PageContentStart,
		Diff:             row.Diff,
	}, nil
}

// GetByPageID returns the diffs of a page newest first. A latest of zero or
// less returns the whole retained history. Records whose metadata does not
// decode are included with DecodeErr set.
func (t *Tracker) GetByPageID(ctx context.Context, pageID string, latest int) ([]Record, error) {
	var rows []data.DiffRow
	err := t.exec.Execute(ctx, "list diffs", func(s *data.Store) error {
		var err error
		rows, err = s.Diffs.ListByPage(ctx, pageID, latest)
		return err
	})
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = t.decode(row)
	}
	return records, nil
}

// AllByPageID returns the full retained history of a page.
func (t *Tracker) AllByPageID(ctx context.Context, pageID string) ([]Record, error) {
	return t.GetByPageID(ctx, pageID, 0)
}

// LatestByPageID returns at most n of the newest diffs of a page.
func (t *Tracker) LatestByPageID(ctx context.Context, pageID string, n int) ([]Record, error) {
	if n <= 0 {
		return []Record{}, nil
	}
	return t.GetByPageID(ctx, pageID, n)
}

// GetSingle returns one diff record, or nil if it does not exist.
func (t *Tracker) GetSingle(ctx context.Context, id string) (*Record, error) {
	var row *data.DiffRow
	err := t.exec.Execute(ctx, "get diff", func(s *data.Store) error {
		var err error
		row, err = s.Diffs.GetByID(ctx, id)
		return err
	})
	if err != nil || row == nil {
		return nil, err
	}
	rec := t.decode(*row)
	return &rec, nil
}

// RevertToDiff restores the state a page had before diff id for the given
// scope and writes it through w, which records the revert as a new diff.
func (t *Tracker) RevertToDiff(ctx context.Context, w PageWriter, id string, scope Scope, userID string) (*data.PageData, error) {
	scope, err := ParseScope(string(scope))
	if err != nil {
		return nil, err
	}
	rec, err := t.GetSingle(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("diff", id)
	}
	if rec.DecodeErr != nil {
		return nil, rec.DecodeErr
	}

	var update data.PageUpdate
	if scope == ScopeData || scope == ScopeBoth {
		start := rec.PageMetaData.Start
		start.ID = rec.PageID
		update.Meta = &start
	}
	if scope == ScopeContent || scope == ScopeBoth {
		update.Content = map[string]string{data.DefaultLang: rec.PageContentStart}
	}

	page, err := w.UpdatePage(ctx, rec.PageID, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to revert page %s to diff %s: %w", rec.PageID, id, err)
	}
	t.log.With(map[string]interface{}{"page_id": rec.PageID, "diff_id": id, "scope": string(scope)}).
		Info("Reverted page to diff")
	return page, nil
}

func (t *Tracker) decode(row data.DiffRow) Record {
	rec := Record{
		ID:               row.ID,
		UserID:           row.UserID,
		PageID:           row.PageID,
		Timestamp:        row.Timestamp(),
		PageContentStart: row.PageContentStart,
		Diff:             row.Diff,
	}
	meta, err := DecodeMetaData(row.PageMetaData)
	if err != nil {
		rec.DecodeErr = &apperr.DecodeError{ID: row.ID, Err: unwrapDecode(err)}
		rec.Corrupt = true
		t.log.With(map[string]interface{}{"diff_id": row.ID}).Warn("Diff record has undecodable metadata")
		return rec
	}
	rec.PageMetaData = meta
	return rec
}

// unwrapDecode strips an id-less DecodeError so the record id can be attached.
func unwrapDecode(err error) error {
	if de, ok := err.(*apperr.DecodeError); ok && de.ID == "" {
		return de.Err
	}
	return err
}
