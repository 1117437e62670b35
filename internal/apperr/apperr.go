// Package apperr defines the typed errors surfaced by the SDK core.
//
// Every error leaving the cache, codec, diff tracker or facade is one of
// NotFoundError, DatabaseError, DecodeError or ValidationError, possibly
// wrapped with additional context via fmt.Errorf("...: %w", err).
package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// NotFoundError reports that a write or revert targeted an absent entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DBErrorKind classifies the cause of a DatabaseError.
type DBErrorKind string

const (
	KindConnectivity DBErrorKind = "connectivity"
	KindConstraint   DBErrorKind = "constraint"
	KindTimeout      DBErrorKind = "timeout"
	KindUnknown      DBErrorKind = "unknown"
)

// DatabaseError wraps a failure returned by the query executor.
type DatabaseError struct {
	Op   string
	Kind DBErrorKind
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// DecodeError reports a stored diff record whose metadata could not be parsed.
type DecodeError struct {
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to decode diff metadata: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode diff %q: %v", e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FieldError is a single failed field check.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError reports a caller payload rejected before reaching the database.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Tag: "invalid", Message: message}}}
}

// ConstraintClassifier reports whether a driver error is a constraint violation.
// The data package registers one per SQL driver in use.
type ConstraintClassifier func(err error) bool

var classifiers []ConstraintClassifier

// RegisterConstraintClassifier adds a driver-specific constraint check used by WrapDB.
func RegisterConstraintClassifier(fn ConstraintClassifier) {
	classifiers = append(classifiers, fn)
}

// WrapDB converts a query executor failure into a DatabaseError. Errors that
// already belong to the taxonomy are returned unchanged.
func WrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		nf *NotFoundError
		de *DatabaseError
		ve *ValidationError
		ce *DecodeError
	)
	if errors.As(err, &nf) || errors.As(err, &de) || errors.As(err, &ve) || errors.As(err, &ce) {
		return err
	}
	return &DatabaseError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) DBErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return KindConnectivity
	}
	if IsConstraint(err) {
		return KindConstraint
	}
	return KindUnknown
}

// IsConstraint reports whether err is a uniqueness or foreign key violation
// according to the registered driver classifiers.
func IsConstraint(err error) bool {
	for _, fn := range classifiers {
		if fn(err) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDatabase reports whether err is a DatabaseError.
func IsDatabase(err error) bool {
	var de *DatabaseError
	return errors.As(err, &de)
}

// IsDecode reports whether err is a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPStatus maps an error to the status code a route handler should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case isKind(err, KindConstraint):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func isKind(err error, kind DBErrorKind) bool {
	var de *DatabaseError
	return errors.As(err, &de) && de.Kind == kind
}
