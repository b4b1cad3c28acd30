package registry

import "errors"

// Sentinel errors for consistent error handling. Callers match with
// errors.Is.
var (
	// ErrInvalidInput marks a malformed request: unknown resource type,
	// unknown category, or a missing required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a URI that was never issued, was deleted, or is
	// expired as of call time.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidQuery marks unparseable or unrecognized search parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrConflict is reserved for multi-writer extensions; the in-process
	// store raises it only on snapshot imports that collide with an
	// already-issued URI.
	ErrConflict = errors.New("resource conflict")
)
