package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// getOrCreate reads a singleton row, inserting the default when it is absent.
// A duplicate-key failure on insert means a concurrent caller created the row
// first, so the row is read again instead of failing.
func getOrCreate[T any](ctx context.Context, get func(context.Context) (*T, error), insert func(context.Context) error) (*T, error) {
	row, err := get(ctx)
	if err != nil || row != nil {
		return row, err
	}
	if err := insert(ctx); err != nil {
		if !isDuplicateKey(err) {
			return nil, err
		}
	}
	row, err = get(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.New("singleton row missing after insert")
	}
	return row, nil
}

type siteConfigRow struct {
	SiteConfig
	GridItemsJSON string `db:"grid_items"`
}

const siteConfigColumns = `id, title, description, default_og_image, site_icon, login_page_background,
	login_page_custom_image, enable_diffs, enable_mailer, hide_default_index, grid_items`

// SiteConfigRepository handles the singleton site configuration row.
type SiteConfigRepository struct {
	q Querier
}

// NewSiteConfigRepository creates a new SiteConfigRepository.
func NewSiteConfigRepository(q Querier) *SiteConfigRepository {
	return &SiteConfigRepository{q: q}
}

// Get returns the site config row, or nil if it has not been created yet.
func (r *SiteConfigRepository) Get(ctx context.Context) (*SiteConfig, error) {
	var row siteConfigRow
	query := `SELECT ` + siteConfigColumns + ` FROM site_config WHERE id = ?`
	if err := r.q.GetContext(ctx, &row, query, SingletonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site config: %w", err)
	}
	cfg := row.SiteConfig
	cfg.GridItems = []string{}
	if row.GridItemsJSON != "" {
		if err := json.Unmarshal([]byte(row.GridItemsJSON), &cfg.GridItems); err != nil {
			return nil, fmt.Errorf("failed to decode site config grid items: %w", err)
		}
	}
	return &cfg, nil
}

// Insert creates the singleton row; it fails with a duplicate-key error if the
// row already exists.
func (r *SiteConfigRepository) Insert(ctx context.Context, cfg SiteConfig) error {
	args, err := siteConfigArgs(cfg)
	if err != nil {
		return err
	}
	query := `INSERT INTO site_config (` + siteConfigColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, append([]interface{}{SingletonID}, args...)...); err != nil {
		return fmt.Errorf("failed to insert site config: %w", err)
	}
	return nil
}

// GetOrCreate returns the site config, inserting defaults on first use.
func (r *SiteConfigRepository) GetOrCreate(ctx context.Context) (*SiteConfig, error) {
	return getOrCreate(ctx, r.Get, func(ctx context.Context) error {
		return r.Insert(ctx, DefaultSiteConfig())
	})
}

// Update overwrites the singleton row.
func (r *SiteConfigRepository) Update(ctx context.Context, cfg SiteConfig) error {
	args, err := siteConfigArgs(cfg)
	if err != nil {
		return err
	}
	query := `UPDATE site_config SET title = ?, description = ?, default_og_image = ?, site_icon = ?,
		login_page_background = ?, login_page_custom_image = ?, enable_diffs = ?, enable_mailer = ?,
		hide_default_index = ?, grid_items = ? WHERE id = ?`
	if _, err := r.q.ExecContext(ctx, query, append(args, SingletonID)...); err != nil {
		return fmt.Errorf("failed to update site config: %w", err)
	}
	return nil
}

func siteConfigArgs(cfg SiteConfig) ([]interface{}, error) {
	items := cfg.GridItems
	if items == nil {
		items = []string{}
	}
	grid, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode site config grid items: %w", err)
	}
	return []interface{}{
		cfg.Title, cfg.Description, cfg.DefaultOGImage, cfg.SiteIcon, cfg.LoginPageBackground,
		cfg.LoginPageCustomImage, cfg.EnableDiffs, cfg.EnableMailer, cfg.HideDefaultIndex, string(grid),
	}, nil
}

// NotificationSettingsRepository handles the singleton notification settings row.
type NotificationSettingsRepository struct {
	q Querier
}

// NewNotificationSettingsRepository creates a new NotificationSettingsRepository.
func NewNotificationSettingsRepository(q Querier) *NotificationSettingsRepository {
	return &NotificationSettingsRepository{q: q}
}

// Get returns the settings row, or nil if it has not been created yet.
func (r *NotificationSettingsRepository) Get(ctx context.Context) (*NotificationSettings, error) {
	var s NotificationSettings
	query := `SELECT id, email_verification, require_admin_verification, require_editor_verification,
		oauth_bypass_verification FROM notification_settings WHERE id = ?`
	if err := r.q.GetContext(ctx, &s, query, SingletonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &s, nil
}

// Insert creates the singleton row.
func (r *NotificationSettingsRepository) Insert(ctx context.Context, s NotificationSettings) error {
	query := `INSERT INTO notification_settings (id, email_verification, require_admin_verification,
		require_editor_verification, oauth_bypass_verification) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.q.ExecContext(ctx, query, SingletonID, s.EmailVerification, s.RequireAdminVerification,
		s.RequireEditorVerification, s.OAuthBypassVerification); err != nil {
		return fmt.Errorf("failed to insert notification settings: %w", err)
	}
	return nil
}

// GetOrCreate returns the settings, inserting defaults on first use.
func (r *NotificationSettingsRepository) GetOrCreate(ctx context.Context) (*NotificationSettings, error) {
	return getOrCreate(ctx, r.Get, func(ctx context.Context) error {
		return r.Insert(ctx, DefaultNotificationSettings())
	})
}

// Update overwrites the singleton row.
func (r *NotificationSettingsRepository) Update(ctx context.Context, s NotificationSettings) error {
	query := `UPDATE notification_settings SET email_verification = ?, require_admin_verification = ?,
		require_editor_verification = ?, oauth_bypass_verification = ? WHERE id = ?`
	if _, err := r.q.ExecContext(ctx, query, s.EmailVerification, s.RequireAdminVerification,
		s.RequireEditorVerification, s.OAuthBypassVerification, SingletonID); err != nil {
		return fmt.Errorf("failed to update notification settings: %w", err)
	}
	return nil
}
