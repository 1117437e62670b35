package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"go-cms-sdk/internal/apperr"
	"go-cms-sdk/internal/logger"

	"github.com/goccy/go-json"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// FromError builds an AppError whose status follows the error taxonomy.
// Client errors expose the error text; server errors only expose message.
func FromError(err error, message string) *AppError {
	code := apperr.HTTPStatus(err)
	if code < http.StatusInternalServerError {
		message = err.Error()
	}
	return &AppError{Error: err, Message: message, Code: code}
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// Error is a middleware that converts handler errors into JSON error responses.
func Error(log logger.Logger) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			fields := map[string]interface{}{"status": appErr.Code, "method": r.Method, "path": r.URL.Path}
			if appErr.Code >= http.StatusInternalServerError {
				log.With(fields).Error(appErr.Error, appErr.Message)
			} else {
				log.With(fields).Debug(appErr.Message)
			}

			body := errorBody{Error: appErr.Message}
			var ve *apperr.ValidationError
			if errors.As(appErr.Error, &ve) {
				body.Fields = ve.Fields
			}
			WriteJSON(w, appErr.Code, body)
		})
	}
}

// WriteJSON encodes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
