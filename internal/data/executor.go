package data

import (
	"context"
	"database/sql"
	"fmt"

	"go-cms-sdk/internal/apperr"

	"github.com/jmoiron/sqlx"
)

// Querier is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store bundles the repositories bound to one Querier, either the pool or a
// transaction.
type Store struct {
	Pages         *PageRepository
	Folders       *FolderRepository
	Categories    *CategoryRepository
	Tags          *TagRepository
	SiteConfig    *SiteConfigRepository
	Notifications *NotificationSettingsRepository
	Diffs         *DiffRepository
	PluginData    *PluginDataRepository
}

// NewStore binds every repository to q.
func NewStore(q Querier) *Store {
	return &Store{
		Pages:         NewPageRepository(q),
		Folders:       NewFolderRepository(q),
		Categories:    NewCategoryRepository(q),
		Tags:          NewTagRepository(q),
		SiteConfig:    NewSiteConfigRepository(q),
		Notifications: NewNotificationSettingsRepository(q),
		Diffs:         NewDiffRepository(q),
		PluginData:    NewPluginDataRepository(q),
	}
}

// Executor runs repository work against the database and converts driver
// failures into apperr.DatabaseError. It adds no timeout of its own; the
// caller's context governs cancellation.
type Executor struct {
	db *sqlx.DB
}

// NewExecutor creates a new Executor.
func NewExecutor(db *sqlx.DB) *Executor {
	return &Executor{db: db}
}

// Execute runs fn against the connection pool.
func (e *Executor) Execute(ctx context.Context, op string, fn func(s *Store) error) error {
	if err := ctx.Err(); err != nil {
		return apperr.WrapDB(op, err)
	}
	return apperr.WrapDB(op, fn(NewStore(e.db)))
}

// Transaction runs fn inside a transaction, committing only if fn succeeds.
func (e *Executor) Transaction(ctx context.Context, op string, fn func(s *Store) error) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.WrapDB(op, fmt.Errorf("failed to begin transaction: %w", err))
	}
	if err := fn(NewStore(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return apperr.WrapDB(op, fmt.Errorf("%w (rollback failed: %v)", err, rbErr))
		}
		return apperr.WrapDB(op, err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.WrapDB(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// inClause expands a query with an IN (?) placeholder and rebinds it for q.
func inClause(q Querier, query string, args ...interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand IN clause: %w", err)
	}
	return q.Rebind(query), args, nil
}
