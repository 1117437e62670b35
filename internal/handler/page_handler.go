package handler

import (
	"net/http"
	"strconv"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/logger"
	"go-cms-sdk/internal/middleware"
	"go-cms-sdk/internal/sdk"
	"go-cms-sdk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// PageHandler holds the dependencies for the page handlers.
type PageHandler struct {
	sdk     *sdk.SDK
	preview *service.PreviewService
	log     logger.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(s *sdk.SDK, preview *service.PreviewService, log logger.Logger) *PageHandler {
	return &PageHandler{
		sdk:     s,
		preview: preview,
		log:     log,
	}
}

// listHandler returns the metadata of every page.
func (h *PageHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pages, err := h.sdk.GetPages(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to list pages")
	}
	middleware.WriteJSON(w, http.StatusOK, pages)
	return nil
}

// getHandler returns one page with all of its content.
func (h *PageHandler) getHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	page, err := h.sdk.GetPageByID(r.Context(), id)
	if err != nil {
		return middleware.FromError(err, "Failed to load page")
	}
	if page == nil {
		return middleware.FromError(apperr.NotFound("page", id), "Page not found")
	}
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}

// slugHandler resolves a page by its slug.
func (h *PageHandler) slugHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	page, err := h.sdk.GetPageBySlug(r.Context(), slug)
	if err != nil {
		return middleware.FromError(err, "Failed to load page")
	}
	if page == nil {
		return middleware.FromError(apperr.NotFound("page", slug), "Page not found")
	}
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}

// createHandler stores a new page from the request body.
func (h *PageHandler) createHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var page data.PageData
	if appErr := decodeBody(r, &page); appErr != nil {
		return appErr
	}
	user := middleware.GetUserInfo(r.Context())
	created, err := h.sdk.CreatePage(r.Context(), user.Subject, page)
	if err != nil {
		return middleware.FromError(err, "Failed to create page")
	}
	h.log.With(map[string]interface{}{"page_id": created.ID, "user": user.Subject}).Info("Page created")
	middleware.WriteJSON(w, http.StatusCreated, created)
	return nil
}

// updateHandler applies a partial update to a page.
func (h *PageHandler) updateHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var update data.PageUpdate
	if appErr := decodeBody(r, &update); appErr != nil {
		return appErr
	}
	id := chi.URLParam(r, "id")
	user := middleware.GetUserInfo(r.Context())
	page, err := h.sdk.UpdatePage(r.Context(), id, user.Subject, update)
	if err != nil {
		return middleware.FromError(err, "Failed to update page")
	}
	h.log.With(map[string]interface{}{"page_id": id, "user": user.Subject}).Info("Page updated")
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}

// deleteHandler removes a page.
func (h *PageHandler) deleteHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	if err := h.sdk.DeletePage(r.Context(), id); err != nil {
		return middleware.FromError(err, "Failed to delete page")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// diffsHandler lists a page's diffs newest first. ?latest=n limits the result.
func (h *PageHandler) diffsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	latest := 0
	if v := r.URL.Query().Get("latest"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return middleware.FromError(apperr.Invalid("latest", "latest must be a non-negative integer"), "")
		}
		latest = n
	}
	diffs, err := h.sdk.GetDiffs(r.Context(), chi.URLParam(r, "id"), latest)
	if err != nil {
		return middleware.FromError(err, "Failed to list diffs")
	}
	middleware.WriteJSON(w, http.StatusOK, diffs)
	return nil
}

// renderHandler returns a page's content as sanitized HTML.
func (h *PageHandler) renderHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	settings := middleware.GetSettings(r.Context())
	preview, err := h.preview.RenderPage(r.Context(), chi.URLParam(r, "id"), settings.Lang)
	if err != nil {
		return middleware.FromError(err, "Failed to render page")
	}
	middleware.WriteJSON(w, http.StatusOK, preview)
	return nil
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v interface{}) *middleware.AppError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid request body", Code: http.StatusBadRequest}
	}
	return nil
}
