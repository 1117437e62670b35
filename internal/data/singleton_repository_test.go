//go:build integration

package data_test

import (
	"context"
	"testing"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/testinfra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfigRepository_GetOrCreate(t *testing.T) {
	db := testinfra.NewSQLiteDB(t)
	s := data.NewStore(db)
	ctx := context.Background()

	missing, err := s.SiteConfig.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	cfg, err := s.SiteConfig.GetOrCreate(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, data.DefaultSiteConfig(), *cfg)

	cfg.Title = "Docs"
	cfg.GridItems = []string{"hero", "news"}
	require.NoError(t, s.SiteConfig.Update(ctx, *cfg))

	again, err := s.SiteConfig.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Docs", again.Title)
	assert.Equal(t, []string{"hero", "news"}, again.GridItems)
}

func TestSiteConfigRepository_DuplicateInsert(t *testing.T) {
	db := testinfra.NewSQLiteDB(t)
	s := data.NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.SiteConfig.Insert(ctx, data.DefaultSiteConfig()))

	err := s.SiteConfig.Insert(ctx, data.DefaultSiteConfig())
	require.Error(t, err)
	assert.True(t, apperr.IsConstraint(apperr.WrapDB("insert", err)), "duplicate insert should classify as a constraint error")

	// The row exists already, so GetOrCreate must not fail on its insert path.
	cfg, err := s.SiteConfig.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.SingletonID, cfg.ID)
}

func TestNotificationSettingsRepository_GetOrCreate(t *testing.T) {
	db := testinfra.NewSQLiteDB(t)
	s := data.NewStore(db)
	ctx := context.Background()

	settings, err := s.Notifications.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, data.DefaultNotificationSettings(), *settings)

	settings.EmailVerification = true
	require.NoError(t, s.Notifications.Update(ctx, *settings))

	got, err := s.Notifications.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.EmailVerification)
}

func TestPluginDataRepository(t *testing.T) {
	db := testinfra.NewSQLiteDB(t)
	s := data.NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.PluginData.Upsert(ctx, data.PluginDataRow{PluginID: "seo", EntryID: "b", Data: `{"n":1}`}))
	require.NoError(t, s.PluginData.Upsert(ctx, data.PluginDataRow{PluginID: "seo", EntryID: "a", Data: `{"n":2}`}))
	require.NoError(t, s.PluginData.Upsert(ctx, data.PluginDataRow{PluginID: "seo", EntryID: "b", Data: `{"n":3}`}))

	rows, err := s.PluginData.List(ctx, "seo")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].EntryID)
	assert.Equal(t, `{"n":3}`, rows[1].Data)

	deleted, err := s.PluginData.Delete(ctx, "seo", "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	row, err := s.PluginData.Get(ctx, "seo", "a")
	require.NoError(t, err)
	assert.Nil(t, row)
}
