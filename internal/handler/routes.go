package handler

import (
	"net/http"

	"go-cms-sdk/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the route handlers served by the router.
type Handlers struct {
	Pages   *PageHandler
	Diffs   *DiffHandler
	Content *ContentHandler
	Seo     *SeoHandler
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, errorMiddleware func(middleware.AppHandler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.User)
	r.Use(middleware.SettingsMiddleware)

	r.Get("/robots.txt", h.Seo.robotsHandler)
	r.Method(http.MethodGet, "/sitemap.xml", errorMiddleware(h.Seo.sitemapHandler))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/pages", func(r chi.Router) {
			r.Method(http.MethodGet, "/", errorMiddleware(h.Pages.listHandler))
			r.Method(http.MethodPost, "/", errorMiddleware(h.Pages.createHandler))
			r.Method(http.MethodGet, "/slug/{slug}", errorMiddleware(h.Pages.slugHandler))
			r.Method(http.MethodGet, "/{id}", errorMiddleware(h.Pages.getHandler))
			r.Method(http.MethodPut, "/{id}", errorMiddleware(h.Pages.updateHandler))
			r.Method(http.MethodDelete, "/{id}", errorMiddleware(h.Pages.deleteHandler))
			r.Method(http.MethodGet, "/{id}/diffs", errorMiddleware(h.Pages.diffsHandler))
			r.Method(http.MethodGet, "/{id}/render", errorMiddleware(h.Pages.renderHandler))
		})

		r.Route("/diffs/{id}", func(r chi.Router) {
			r.Method(http.MethodGet, "/", errorMiddleware(h.Diffs.getHandler))
			r.Method(http.MethodGet, "/html", errorMiddleware(h.Diffs.htmlHandler))
			r.Method(http.MethodPost, "/revert", errorMiddleware(h.Diffs.revertHandler))
		})

		r.Route("/folders", func(r chi.Router) {
			r.Method(http.MethodGet, "/", errorMiddleware(h.Content.listFolders))
			r.Method(http.MethodPost, "/", errorMiddleware(h.Content.createFolder))
			r.Method(http.MethodGet, "/tree", errorMiddleware(h.Content.folderTree))
			r.Method(http.MethodPut, "/{id}", errorMiddleware(h.Content.updateFolder))
			r.Method(http.MethodDelete, "/{id}", errorMiddleware(h.Content.deleteFolder))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Method(http.MethodGet, "/", errorMiddleware(h.Content.listCategories))
			r.Method(http.MethodPost, "/", errorMiddleware(h.Content.createCategory))
			r.Method(http.MethodPut, "/{id}", errorMiddleware(h.Content.updateCategory))
			r.Method(http.MethodDelete, "/{id}", errorMiddleware(h.Content.deleteCategory))
		})

		r.Route("/tags", func(r chi.Router) {
			r.Method(http.MethodGet, "/", errorMiddleware(h.Content.listTags))
			r.Method(http.MethodPost, "/", errorMiddleware(h.Content.createTag))
			r.Method(http.MethodPut, "/{id}", errorMiddleware(h.Content.updateTag))
			r.Method(http.MethodDelete, "/{id}", errorMiddleware(h.Content.deleteTag))
		})

		r.Method(http.MethodGet, "/site-config", errorMiddleware(h.Content.getSiteConfig))
		r.Method(http.MethodPut, "/site-config", errorMiddleware(h.Content.updateSiteConfig))
		r.Method(http.MethodGet, "/notification-settings", errorMiddleware(h.Content.getNotificationSettings))
		r.Method(http.MethodPut, "/notification-settings", errorMiddleware(h.Content.updateNotificationSettings))

		r.Method(http.MethodGet, "/cache/stats", errorMiddleware(h.Content.cacheStats))
		r.Method(http.MethodPost, "/cache/clear", errorMiddleware(h.Content.clearCache))
	})

	return r
}
