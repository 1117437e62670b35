package sdk

import (
	"context"

	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/validation"
)

// GetSiteConfig returns the site configuration, creating the default row on
// first use.
func (s *SDK) GetSiteConfig(ctx context.Context) (*cache.Entry[data.SiteConfig], error) {
	return readThrough(ctx, s, cache.KeySiteConfig, "get site config", func(st *data.Store) (data.SiteConfig, bool, error) {
		return optional(st.SiteConfig.GetOrCreate(ctx))
	})
}

// UpdateSiteConfig overwrites the site configuration and refreshes its cache
// entry.
func (s *SDK) UpdateSiteConfig(ctx context.Context, cfg data.SiteConfig) (*cache.Entry[data.SiteConfig], error) {
	cfg.ID = data.SingletonID
	if cfg.GridItems == nil {
		cfg.GridItems = []string{}
	}
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	var saved *data.SiteConfig
	err := s.exec.Transaction(ctx, "update site config", func(st *data.Store) error {
		if _, err := st.SiteConfig.GetOrCreate(ctx); err != nil {
			return err
		}
		if err := st.SiteConfig.Update(ctx, cfg); err != nil {
			return err
		}
		var err error
		saved, err = st.SiteConfig.Get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	entry := cache.Put(s.cache, cache.KeySiteConfig, *saved)
	return &entry, nil
}

// GetNotificationSettings returns the notification settings, creating the
// default row on first use.
func (s *SDK) GetNotificationSettings(ctx context.Context) (*cache.Entry[data.NotificationSettings], error) {
	return readThrough(ctx, s, cache.KeyNotificationSettings, "get notification settings",
		func(st *data.Store) (data.NotificationSettings, bool, error) {
			return optional(st.Notifications.GetOrCreate(ctx))
		})
}

// UpdateNotificationSettings overwrites the notification settings and
// refreshes their cache entry.
func (s *SDK) UpdateNotificationSettings(ctx context.Context, settings data.NotificationSettings) (*cache.Entry[data.NotificationSettings], error) {
	settings.ID = data.SingletonID

	var saved *data.NotificationSettings
	err := s.exec.Transaction(ctx, "update notification settings", func(st *data.Store) error {
		if _, err := st.Notifications.GetOrCreate(ctx); err != nil {
			return err
		}
		if err := st.Notifications.Update(ctx, settings); err != nil {
			return err
		}
		var err error
		saved, err = st.Notifications.Get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	entry := cache.Put(s.cache, cache.KeyNotificationSettings, *saved)
	return &entry, nil
}
