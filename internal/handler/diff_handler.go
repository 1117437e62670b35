package handler

import (
	"net/http"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/diff"
	"go-cms-sdk/internal/logger"
	"go-cms-sdk/internal/middleware"
	"go-cms-sdk/internal/sdk"

	"github.com/go-chi/chi/v5"
)

// DiffHandler serves diff records, their HTML rendering and reverts.
type DiffHandler struct {
	sdk *sdk.SDK
	log logger.Logger
}

// NewDiffHandler creates a new DiffHandler.
func NewDiffHandler(s *sdk.SDK, log logger.Logger) *DiffHandler {
	return &DiffHandler{sdk: s, log: log}
}

func (h *DiffHandler) load(r *http.Request) (*diff.Record, *middleware.AppError) {
	id := chi.URLParam(r, "id")
	rec, err := h.sdk.GetDiff(r.Context(), id)
	if err != nil {
		return nil, middleware.FromError(err, "Failed to load diff")
	}
	if rec == nil {
		return nil, middleware.FromError(apperr.NotFound("diff", id), "Diff not found")
	}
	return rec, nil
}

// getHandler returns one decoded diff record.
func (h *DiffHandler) getHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	rec, appErr := h.load(r)
	if appErr != nil {
		return appErr
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
	return nil
}

// htmlHandler renders the content patch of a diff. ?mode=side-by-side
// switches from the inline layout.
func (h *DiffHandler) htmlHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	rec, appErr := h.load(r)
	if appErr != nil {
		return appErr
	}
	patch := ""
	if rec.Diff != nil {
		patch = *rec.Diff
	}
	settings := middleware.GetSettings(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(diff.RenderPatchHTML(patch, diff.RenderOptions{Mode: settings.DiffMode})))
	return nil
}

// revertHandler restores the page state recorded before a diff.
func (h *DiffHandler) revertHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	scope, err := diff.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		return middleware.FromError(err, "")
	}
	id := chi.URLParam(r, "id")
	user := middleware.GetUserInfo(r.Context())
	page, err := h.sdk.RevertToDiff(r.Context(), id, scope, user.Subject)
	if err != nil {
		return middleware.FromError(err, "Failed to revert page")
	}
	h.log.With(map[string]interface{}{"diff_id": id, "user": user.Subject}).Info("Page reverted")
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}
