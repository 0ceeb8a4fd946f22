package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing key in Redis.
	RedisNotFoundMessage = "document not found"
)

// Terminal failure kinds surfaced to callers. None of these are retried
// internally; the request that hit them fails as a whole.
var (
	// ErrExtractionFailed signals the model returned nothing parseable for an
	// invoice extraction request.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrCategorizationFailed signals classification produced no entries for a
	// non-empty line-item input.
	ErrCategorizationFailed = errors.New("categorization failed")

	// ErrGenerationFailed signals the model call itself returned no usable output.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrIncompleteProfile signals a tool was invoked against a user record
	// missing a required field.
	ErrIncompleteProfile = errors.New("incomplete user profile")

	// ErrNotFound signals a referenced document or asset is absent.
	ErrNotFound = errors.New("not found")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// StatusOf maps an error chain to the HTTP status a handler should return.
// AppError carries its own status; the sentinel kinds map to stable codes;
// everything else is a 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIncompleteProfile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrExtractionFailed),
		errors.Is(err, ErrCategorizationFailed),
		errors.Is(err, ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
