//go:build unit

package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapDB_Classification(t *testing.T) {
	errUnique := errors.New("duplicate")
	RegisterConstraintClassifier(func(err error) bool { return errors.Is(err, errUnique) })

	testCases := []struct {
		name string
		err  error
		want DBErrorKind
	}{
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), KindTimeout},
		{"bad conn", driver.ErrBadConn, KindConnectivity},
		{"constraint", fmt.Errorf("insert: %w", errUnique), KindConstraint},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := WrapDB("test", tc.err)
			var dbErr *DatabaseError
			if !errors.As(err, &dbErr) {
				t.Fatalf("expected DatabaseError, got %T", err)
			}
			if dbErr.Kind != tc.want {
				t.Errorf("expected kind %s, got %s", tc.want, dbErr.Kind)
			}
			if !errors.Is(err, tc.err) {
				t.Error("expected original cause to be preserved")
			}
		})
	}
}

func TestWrapDB_KeepsTaxonomy(t *testing.T) {
	nf := NotFound("page", "p1")
	if got := WrapDB("update", nf); got != nf {
		t.Errorf("expected NotFoundError to pass through unchanged, got %v", got)
	}
	if WrapDB("noop", nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestWrapDB_CancellationStillDetectable(t *testing.T) {
	err := WrapDB("select", context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("expected errors.Is(err, context.Canceled) to hold")
	}
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{NotFound("diff", "d1"), http.StatusNotFound},
		{fmt.Errorf("revert: %w", NotFound("page", "p1")), http.StatusNotFound},
		{Invalid("title", "title is required"), http.StatusBadRequest},
		{&DecodeError{ID: "d1", Err: errors.New("bad json")}, http.StatusInternalServerError},
		{WrapDB("select", errors.New("boom")), http.StatusInternalServerError},
		{&DatabaseError{Op: "insert", Kind: KindConstraint, Err: errors.New("UNIQUE")}, http.StatusConflict},
	}
	for _, tc := range testCases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "Title", Message: "Title is required"},
		{Field: "Description", Message: "Description is required"},
	}}
	if err.Error() != "Title is required; Description is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
