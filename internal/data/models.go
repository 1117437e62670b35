package data

import (
	"time"
)

// DefaultLang is the locale whose content is tracked by page diffs.
const DefaultLang = "default"

// SingletonID is the well-known row id of the site config and notification settings tables.
const SingletonID = 1

// PageMeta holds the core columns of a page plus its taxonomy membership.
// It is the partial page snapshot stored at both ends of a diff.
type PageMeta struct {
	ID               string     `db:"id" json:"id"`
	Title            string     `db:"title" json:"title" validate:"required,max=255"`
	Slug             string     `db:"slug" json:"slug" validate:"required,slug,max=255"`
	Description      string     `db:"description" json:"description"`
	Package          string     `db:"package" json:"package" validate:"required"`
	ParentFolder     *string    `db:"parent_folder" json:"parentFolder"`
	Draft            bool       `db:"draft" json:"draft"`
	PublishedAt      *time.Time `db:"-" json:"publishedAt"`
	UpdatedAt        time.Time  `db:"-" json:"updatedAt"`
	AuthorID         string     `db:"author_id" json:"authorId"`
	HeroImage        string     `db:"hero_image" json:"heroImage"`
	ShowOnNav        bool       `db:"show_on_nav" json:"showOnNav"`
	ShowAuthor       bool       `db:"show_author" json:"showAuthor"`
	ShowContributors bool       `db:"show_contributors" json:"showContributors"`
	Categories       []int64    `db:"-" json:"categories"`
	Tags             []int64    `db:"-" json:"tags"`
}

// pageRow is the scan target for the pages table; timestamps are stored as
// unix milliseconds so the schema stays portable between drivers.
type pageRow struct {
	PageMeta
	PublishedAtMillis *int64 `db:"published_at"`
	UpdatedAtMillis   int64  `db:"updated_at"`
}

func (r pageRow) meta() PageMeta {
	m := r.PageMeta
	if r.PublishedAtMillis != nil {
		t := fromMillis(*r.PublishedAtMillis)
		m.PublishedAt = &t
	}
	m.UpdatedAt = fromMillis(r.UpdatedAtMillis)
	return m
}

// PageContent is the body of a page for one locale.
type PageContent struct {
	PageID  string `db:"page_id" json:"pageId"`
	Lang    string `db:"lang" json:"lang"`
	Content string `db:"content" json:"content"`
}

// PageData is a page with all of its localized content.
type PageData struct {
	PageMeta
	Contents []PageContent `json:"contents"`
}

// ContentFor returns the content for lang, or "" when none is stored.
func (p *PageData) ContentFor(lang string) string {
	for _, c := range p.Contents {
		if c.Lang == lang {
			return c.Content
		}
	}
	return ""
}

// PageUpdate describes a write to an existing page. A nil Meta leaves the
// core columns and taxonomy untouched; Content maps locale to new body.
type PageUpdate struct {
	Meta    *PageMeta         `json:"meta,omitempty"`
	Content map[string]string `json:"content,omitempty"`
}

// Folder groups pages; Parent is nil for top-level folders.
type Folder struct {
	ID     string  `db:"id" json:"id"`
	Name   string  `db:"name" json:"name" validate:"required,max=255"`
	Parent *string `db:"parent" json:"parent"`
}

// FolderNode is a folder with its child folders and the pages filed under it.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
	Pages    []PageMeta    `json:"pages"`
}

// Category is a hierarchical page taxonomy.
type Category struct {
	ID          int64  `db:"id" json:"id" validate:"gt=0"`
	Name        string `db:"name" json:"name" validate:"required,max=255"`
	Slug        string `db:"slug" json:"slug" validate:"required,slug"`
	Description string `db:"description" json:"description"`
	Parent      *int64 `db:"parent" json:"parent"`
	PageCount   int    `db:"page_count" json:"pageCount"`
}

// Tag is a flat page taxonomy.
type Tag struct {
	ID          int64  `db:"id" json:"id" validate:"gt=0"`
	Name        string `db:"name" json:"name" validate:"required,max=255"`
	Slug        string `db:"slug" json:"slug" validate:"required,slug"`
	Description string `db:"description" json:"description"`
	PageCount   int    `db:"page_count" json:"pageCount"`
}

// SiteConfig is the singleton site configuration row.
type SiteConfig struct {
	ID                   int      `db:"id" json:"id"`
	Title                string   `db:"title" json:"title" validate:"required,min=1,max=255"`
	Description          string   `db:"description" json:"description" validate:"required,min=1"`
	DefaultOGImage       *string  `db:"default_og_image" json:"defaultOgImage" validate:"omitempty,url"`
	SiteIcon             *string  `db:"site_icon" json:"siteIcon"`
	LoginPageBackground  string   `db:"login_page_background" json:"loginPageBackground" validate:"required"`
	LoginPageCustomImage *string  `db:"login_page_custom_image" json:"loginPageCustomImage"`
	EnableDiffs          bool     `db:"enable_diffs" json:"enableDiffs"`
	EnableMailer         bool     `db:"enable_mailer" json:"enableMailer"`
	HideDefaultIndex     bool     `db:"hide_default_index" json:"hideDefaultIndex"`
	GridItems            []string `db:"-" json:"gridItems"`
}

// DefaultSiteConfig is inserted the first time the site config is read.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		ID:                  SingletonID,
		Title:               "My Site",
		Description:         "A site powered by the CMS",
		LoginPageBackground: "curves",
		EnableDiffs:         true,
		GridItems:           []string{},
	}
}

// NotificationSettings is the singleton notification settings row.
type NotificationSettings struct {
	ID                        int  `db:"id" json:"id"`
	EmailVerification         bool `db:"email_verification" json:"emailVerification"`
	RequireAdminVerification  bool `db:"require_admin_verification" json:"requireAdminVerification"`
	RequireEditorVerification bool `db:"require_editor_verification" json:"requireEditorVerification"`
	OAuthBypassVerification   bool `db:"oauth_bypass_verification" json:"oAuthBypassVerification"`
}

// DefaultNotificationSettings is inserted the first time the settings are read.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{ID: SingletonID}
}

// DiffRow is a stored diff record. PageMetaData holds the JSON-encoded
// start/end metadata and is decoded by the diff package.
type DiffRow struct {
	ID               string  `db:"id"`
	UserID           string  `db:"user_id"`
	PageID           string  `db:"page_id"`
	TimestampMillis  int64   `db:"timestamp"`
	PageMetaData     string  `db:"page_meta_data"`
	PageContentStart string  `db:"page_content_start"`
	Diff             *string `db:"diff"`
}

// Timestamp returns the record time.
func (d DiffRow) Timestamp() time.Time {
	return fromMillis(d.TimestampMillis)
}

// PluginDataRow is one JSON payload stored by a plugin.
type PluginDataRow struct {
	PluginID string `db:"plugin_id"`
	EntryID  string `db:"entry_id"`
	Data     string `db:"data"`
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
