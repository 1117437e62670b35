package handler

import (
	"net/http"
	"strconv"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/logger"
	"go-cms-sdk/internal/middleware"
	"go-cms-sdk/internal/sdk"

	"github.com/go-chi/chi/v5"
)

// ContentHandler serves folders, taxonomy, the site singletons and cache
// administration.
type ContentHandler struct {
	sdk *sdk.SDK
	log logger.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(s *sdk.SDK, log logger.Logger) *ContentHandler {
	return &ContentHandler{sdk: s, log: log}
}

func (h *ContentHandler) listFolders(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	folders, err := h.sdk.GetFolderList(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to list folders")
	}
	middleware.WriteJSON(w, http.StatusOK, folders)
	return nil
}

func (h *ContentHandler) folderTree(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	tree, err := h.sdk.GetFolderTree(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to build folder tree")
	}
	middleware.WriteJSON(w, http.StatusOK, tree)
	return nil
}

func (h *ContentHandler) createFolder(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var folder data.Folder
	if appErr := decodeBody(r, &folder); appErr != nil {
		return appErr
	}
	created, err := h.sdk.CreateFolder(r.Context(), folder)
	if err != nil {
		return middleware.FromError(err, "Failed to create folder")
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
	return nil
}

func (h *ContentHandler) updateFolder(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var folder data.Folder
	if appErr := decodeBody(r, &folder); appErr != nil {
		return appErr
	}
	folder.ID = chi.URLParam(r, "id")
	updated, err := h.sdk.UpdateFolder(r.Context(), folder)
	if err != nil {
		return middleware.FromError(err, "Failed to update folder")
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
	return nil
}

func (h *ContentHandler) deleteFolder(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sdk.DeleteFolder(r.Context(), chi.URLParam(r, "id")); err != nil {
		return middleware.FromError(err, "Failed to delete folder")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *ContentHandler) listCategories(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.sdk.GetCategories(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to list categories")
	}
	middleware.WriteJSON(w, http.StatusOK, categories)
	return nil
}

func (h *ContentHandler) createCategory(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var c data.Category
	if appErr := decodeBody(r, &c); appErr != nil {
		return appErr
	}
	created, err := h.sdk.CreateCategory(r.Context(), c)
	if err != nil {
		return middleware.FromError(err, "Failed to create category")
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
	return nil
}

func (h *ContentHandler) updateCategory(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := int64Param(r)
	if appErr != nil {
		return appErr
	}
	var c data.Category
	if appErr := decodeBody(r, &c); appErr != nil {
		return appErr
	}
	c.ID = id
	updated, err := h.sdk.UpdateCategory(r.Context(), c)
	if err != nil {
		return middleware.FromError(err, "Failed to update category")
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
	return nil
}

func (h *ContentHandler) deleteCategory(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := int64Param(r)
	if appErr != nil {
		return appErr
	}
	if err := h.sdk.DeleteCategory(r.Context(), id); err != nil {
		return middleware.FromError(err, "Failed to delete category")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *ContentHandler) listTags(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	tags, err := h.sdk.GetTags(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to list tags")
	}
	middleware.WriteJSON(w, http.StatusOK, tags)
	return nil
}

func (h *ContentHandler) createTag(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var t data.Tag
	if appErr := decodeBody(r, &t); appErr != nil {
		return appErr
	}
	created, err := h.sdk.CreateTag(r.Context(), t)
	if err != nil {
		return middleware.FromError(err, "Failed to create tag")
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
	return nil
}

func (h *ContentHandler) updateTag(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := int64Param(r)
	if appErr != nil {
		return appErr
	}
	var t data.Tag
	if appErr := decodeBody(r, &t); appErr != nil {
		return appErr
	}
	t.ID = id
	updated, err := h.sdk.UpdateTag(r.Context(), t)
	if err != nil {
		return middleware.FromError(err, "Failed to update tag")
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
	return nil
}

func (h *ContentHandler) deleteTag(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := int64Param(r)
	if appErr != nil {
		return appErr
	}
	if err := h.sdk.DeleteTag(r.Context(), id); err != nil {
		return middleware.FromError(err, "Failed to delete tag")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *ContentHandler) getSiteConfig(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	cfg, err := h.sdk.GetSiteConfig(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to load site config")
	}
	middleware.WriteJSON(w, http.StatusOK, cfg)
	return nil
}

func (h *ContentHandler) updateSiteConfig(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var cfg data.SiteConfig
	if appErr := decodeBody(r, &cfg); appErr != nil {
		return appErr
	}
	updated, err := h.sdk.UpdateSiteConfig(r.Context(), cfg)
	if err != nil {
		return middleware.FromError(err, "Failed to update site config")
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
	return nil
}

func (h *ContentHandler) getNotificationSettings(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	settings, err := h.sdk.GetNotificationSettings(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to load notification settings")
	}
	middleware.WriteJSON(w, http.StatusOK, settings)
	return nil
}

func (h *ContentHandler) updateNotificationSettings(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var settings data.NotificationSettings
	if appErr := decodeBody(r, &settings); appErr != nil {
		return appErr
	}
	updated, err := h.sdk.UpdateNotificationSettings(r.Context(), settings)
	if err != nil {
		return middleware.FromError(err, "Failed to update notification settings")
	}
	middleware.WriteJSON(w, http.StatusOK, updated)
	return nil
}

type cacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Keys      int   `json:"keys"`
}

func (h *ContentHandler) cacheStats(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	st := h.sdk.Cache().Stats()
	middleware.WriteJSON(w, http.StatusOK, cacheStats(st))
	return nil
}

// clearCache drops one cache scope, or everything when ?scope is empty.
func (h *ContentHandler) clearCache(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	q := r.URL.Query()
	switch scope := q.Get("scope"); scope {
	case "", "all":
		h.sdk.ClearAll()
	case "pages":
		h.sdk.ClearPages()
	case "folders":
		h.sdk.ClearFolders()
	case "taxonomy":
		h.sdk.ClearTaxonomy()
	case "site-config":
		h.sdk.ClearSiteConfig()
	case "plugin":
		plugin := q.Get("plugin")
		if plugin == "" {
			return middleware.FromError(apperr.Invalid("plugin", "plugin is required for the plugin scope"), "")
		}
		h.sdk.ClearPluginData(plugin)
	default:
		return middleware.FromError(apperr.Invalid("scope", "unknown cache scope "+strconv.Quote(scope)), "")
	}
	h.log.With(map[string]interface{}{"scope": q.Get("scope")}).Info("Cache cleared")
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func int64Param(r *http.Request) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, middleware.FromError(apperr.Invalid("id", "id must be an integer"), "")
	}
	return id, nil
}
