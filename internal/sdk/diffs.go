package sdk

import (
	"context"

	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/diff"
)

// GetDiffs returns the newest diffs of a page; latest <= 0 returns all of them.
func (s *SDK) GetDiffs(ctx context.Context, pageID string, latest int) ([]diff.Record, error) {
	return s.tracker.GetByPageID(ctx, pageID, latest)
}

// GetDiff returns one diff record, or nil if it does not exist.
func (s *SDK) GetDiff(ctx context.Context, id string) (*diff.Record, error) {
	return s.tracker.GetSingle(ctx, id)
}

// RevertToDiff restores a page to the state before diff id. The revert is a
// regular page update, so it is recorded as a diff of its own.
func (s *SDK) RevertToDiff(ctx context.Context, id string, scope diff.Scope, userID string) (*data.PageData, error) {
	return s.tracker.RevertToDiff(ctx, s, id, scope, userID)
}

var _ diff.PageWriter = (*SDK)(nil)
