//go:build unit

package validation

import (
	"errors"
	"testing"

	"go-cms-sdk/internal/apperr"
)

type samplePayload struct {
	Title string `validate:"required,max=10"`
	Slug  string `validate:"required,slug"`
	Mode  string `validate:"omitempty,oneof=inline side-by-side"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		if err := ValidateStruct(&samplePayload{Title: "Home", Slug: "blog/first-post"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("collects every failing field", func(t *testing.T) {
		err := ValidateStruct(&samplePayload{Title: "", Slug: "Not A Slug", Mode: "diagonal"})
		var ve *apperr.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if len(ve.Fields) != 3 {
			t.Fatalf("expected 3 field errors, got %d: %v", len(ve.Fields), ve)
		}
		want := map[string]string{
			"Title": "Title is required",
			"Slug":  "Slug must be a lowercase slug",
			"Mode":  "Mode must be one of: inline side-by-side",
		}
		for _, f := range ve.Fields {
			if want[f.Field] != f.Message {
				t.Errorf("field %s: expected %q, got %q", f.Field, want[f.Field], f.Message)
			}
		}
	})

	t.Run("max length message", func(t *testing.T) {
		err := ValidateStruct(&samplePayload{Title: "a very long title", Slug: "ok"})
		if err == nil || err.Error() != "Title must be at most 10 characters" {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
