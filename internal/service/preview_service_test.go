//go:build unit

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/cache"
	"go-cms-sdk/internal/data"
)

// mockPageReader is a mock implementation of the PageReader interface.
type mockPageReader struct {
	pageToReturn *data.PageData
	errToReturn  error
	calls        int
}

var _ PageReader = (*mockPageReader)(nil)

func (m *mockPageReader) GetPageByID(ctx context.Context, id string) (*cache.Entry[data.PageData], error) {
	m.calls++
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.pageToReturn == nil {
		return nil, nil
	}
	return &cache.Entry[data.PageData]{Data: *m.pageToReturn}, nil
}

func TestPreviewService_RenderMarkdown(t *testing.T) {
	svc := NewPreviewService(&mockPageReader{})

	html, err := svc.RenderMarkdown("# Title\n\nSome *emphasis* and <script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("RenderMarkdown() returned an unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("expected rendered heading and emphasis, got %q", html)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected GFM table, got %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("expected script to be stripped, got %q", html)
	}
}

func TestPreviewService_RenderPage(t *testing.T) {
	page := &data.PageData{
		PageMeta: data.PageMeta{ID: "p1", Title: "Home"},
		Contents: []data.PageContent{
			{PageID: "p1", Lang: data.DefaultLang, Content: "**hello**"},
			{PageID: "p1", Lang: "fr", Content: "**bonjour**"},
		},
	}

	t.Run("default locale", func(t *testing.T) {
		mockRepo := &mockPageReader{pageToReturn: page}
		svc := NewPreviewService(mockRepo)

		preview, err := svc.RenderPage(context.Background(), "p1", "")
		if err != nil {
			t.Fatalf("RenderPage() returned an unexpected error: %v", err)
		}
		if preview.Lang != data.DefaultLang {
			t.Errorf("expected lang %q, got %q", data.DefaultLang, preview.Lang)
		}
		if !strings.Contains(preview.HTML, "<strong>hello</strong>") {
			t.Errorf("unexpected html %q", preview.HTML)
		}
		if mockRepo.calls != 1 {
			t.Errorf("expected 1 page read, got %d", mockRepo.calls)
		}
	})

	t.Run("other locale", func(t *testing.T) {
		svc := NewPreviewService(&mockPageReader{pageToReturn: page})
		preview, err := svc.RenderPage(context.Background(), "p1", "fr")
		if err != nil {
			t.Fatalf("RenderPage() returned an unexpected error: %v", err)
		}
		if !strings.Contains(preview.HTML, "bonjour") {
			t.Errorf("unexpected html %q", preview.HTML)
		}
	})

	t.Run("missing locale", func(t *testing.T) {
		svc := NewPreviewService(&mockPageReader{pageToReturn: page})
		_, err := svc.RenderPage(context.Background(), "p1", "de")
		if !apperr.IsNotFound(err) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("missing page", func(t *testing.T) {
		svc := NewPreviewService(&mockPageReader{})
		_, err := svc.RenderPage(context.Background(), "nope", "")
		if !apperr.IsNotFound(err) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("reader error", func(t *testing.T) {
		dbErr := errors.New("db down")
		svc := NewPreviewService(&mockPageReader{errToReturn: dbErr})
		_, err := svc.RenderPage(context.Background(), "p1", "")
		if !errors.Is(err, dbErr) {
			t.Errorf("expected error %v, got %v", dbErr, err)
		}
	})
}
