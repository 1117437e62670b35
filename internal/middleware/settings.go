package middleware

import (
	"context"
	"net/http"

	"go-cms-sdk/internal/data"
	"go-cms-sdk/internal/diff"
)

type settingsKey string

const (
	// SettingsKey is the key for the per-request display settings.
	SettingsKey settingsKey = "settings"
)

// Settings are display options a client picks per request.
type Settings struct {
	Lang     string
	DiffMode diff.RenderMode
}

// SettingsMiddleware reads the "lang" and "mode" query parameters into the
// request context so that render endpoints share one parsing rule.
func SettingsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		settings := Settings{Lang: q.Get("lang"), DiffMode: diff.ParseRenderMode(q.Get("mode"))}
		if settings.Lang == "" {
			settings.Lang = data.DefaultLang
		}
		ctx := context.WithValue(r.Context(), SettingsKey, settings)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSettings returns the request's settings, or the defaults if the
// middleware did not run.
func GetSettings(ctx context.Context) Settings {
	if s, ok := ctx.Value(SettingsKey).(Settings); ok {
		return s
	}
	return Settings{Lang: data.DefaultLang, DiffMode: diff.ModeInline}
}
