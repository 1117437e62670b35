package service

import (
	"bytes"
	"context"
	"fmt"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PageReader is the part of the SDK facade the preview service reads from.
type PageReader interface {
	GetPageByID(ctx context.Context, id string) (*cache.Entry[data.PageData], error)
}

// Preview is the rendered HTML of one locale of a page.
type Preview struct {
	PageID string `json:"pageId"`
	Lang   string `json:"lang"`
	Title  string `json:"title"`
	HTML   string `json:"html"`
}

// PreviewService renders stored Markdown content into sanitized HTML.
type PreviewService struct {
	pages     PageReader
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewPreviewService creates a new PreviewService reading pages through pages.
func NewPreviewService(pages PageReader) *PreviewService {
	// UGCPolicy keeps basic formatting like links, lists and tables while
	// stripping anything that could run script.
	return &PreviewService{
		pages:     pages,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// RenderMarkdown converts src to sanitized HTML.
func (s *PreviewService) RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return s.sanitizer.Sanitize(buf.String()), nil
}

// RenderPage renders the content of page id for lang. An empty lang means
// the default locale.
func (s *PreviewService) RenderPage(ctx context.Context, id, lang string) (*Preview, error) {
	if lang == "" {
		lang = data.DefaultLang
	}
	entry, err := s.pages.GetPageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperr.NotFound("page", id)
	}

	page := entry.Data
	found := false
	for _, c := range page.Contents {
		if c.Lang == lang {
			found = true
			break
		}
	}
	if !found {
		return nil, apperr.NotFound("page content", id+"/"+lang)
	}

	html, err := s.RenderMarkdown(page.ContentFor(lang))
	if err != nil {
		return nil, err
	}
	return &Preview{PageID: page.ID, Lang: lang, Title: page.Title, HTML: html}, nil
}
