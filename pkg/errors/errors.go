// Package errors defines the sentinel errors shared across the pipeline
// stages and the HTTP status mapping used by the query service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrManifestNotFound   = errors.New("collection manifest not found")
	ErrDocumentNotFound   = errors.New("document file not found")
	ErrCollectionTooLarge = errors.New("collection exceeds configured document limit")
	ErrTooManyTerms       = errors.New("index exceeds configured term limit")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTimeout            = errors.New("operation timed out")
)

// AppError carries a caller-facing message and an explicit HTTP status
// alongside the sentinel it wraps.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode maps err to an HTTP status. An AppError anywhere in the
// chain wins; otherwise the sentinel decides, defaulting to 500.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrManifestNotFound),
		errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
