// Package apperr defines the error taxonomy shared by the query surface and
// the storage layer. Call sites wrap these sentinels with %w; handlers map
// them to HTTP responses with errors.Is so callers can distinguish retryable
// failures (persistence) from terminal ones (not found, integrity).
package apperr

import "errors"

var (
	// ErrValidation marks a malformed request or event payload, such as a
	// missing required identity.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence marks a storage failure (unavailable or write error).
	ErrPersistence = errors.New("persistence failure")

	// ErrDataIntegrity marks referential corruption, e.g. a message whose
	// counterpart has no resolvable profile.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrNotFound marks a query referencing an unknown user or conversation.
	ErrNotFound = errors.New("not found")
)

// Code returns the stable wire code for err, or "internal_error" when the
// error belongs to no known kind.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity_error"
	case errors.Is(err, ErrPersistence):
		return "persistence_error"
	default:
		return "internal_error"
	}
}
