package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"go-cms-sdk/internal/middleware"
	"go-cms-sdk/internal/sdk"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	sdk     *sdk.SDK
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin
// prefixed to every sitemap link.
func NewSeoHandler(s *sdk.SDK, baseURL string) *SeoHandler {
	return &SeoHandler{sdk: s, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates a sitemap of every published page from the
// cached page list.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pages, err := h.sdk.GetPages(r.Context())
	if err != nil {
		return middleware.FromError(err, "Failed to retrieve pages for sitemap")
	}

	sitemap := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range pages.Data {
		if page.Draft {
			continue
		}
		sitemap.URLs = append(sitemap.URLs, sitemapURL{
			Loc:     h.baseURL + "/" + page.Slug,
			LastMod: page.UpdatedAt.Format(sitemapDateFormat),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to generate sitemap XML", Code: http.StatusInternalServerError}
	}
	return nil
}
