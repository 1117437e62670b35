package cache

import "strings"

// Cache key namespaces. List-shaped keys and single-entity keys are
// invalidated independently.
const (
	KeyPages                = "pages"
	KeyFolders              = "folders"
	KeyFolderList           = "folderList"
	KeySiteConfig           = "siteConfig"
	KeyNotificationSettings = "notificationSettings"
	KeyCategories           = "categories"
	KeyTags                 = "tags"

	pagePrefix       = "page:"
	pluginDataPrefix = "pluginData:"
)

// PageKey is the key of a single page with its content.
func PageKey(id string) string {
	return pagePrefix + id
}

// AllPagesPattern matches every single-page key.
const AllPagesPattern = pagePrefix + "*"

// PluginDataKey is the key of a plugin's entry list, or of one entry when
// entryID is given.
func PluginDataKey(pluginID string, entryID ...string) string {
	if len(entryID) == 0 || entryID[0] == "" {
		return pluginDataPrefix + pluginID
	}
	return pluginDataPrefix + pluginID + ":" + entryID[0]
}

// PluginDataPattern matches every entry key of a plugin.
func PluginDataPattern(pluginID string) string {
	return pluginDataPrefix + pluginID + ":*"
}

// namespace returns the metrics label for key.
func namespace(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
