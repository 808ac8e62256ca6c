package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Transport layers map
// them to protocol-specific codes at the boundary only.
var (
	// ErrConfigNotReady indicates configuration has not been initialised yet.
	// Recoverable: the caller can supply configuration and retry.
	ErrConfigNotReady = errors.New("configuration not ready")

	// ErrAuthRequired indicates the store requires credentials but none
	// are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthFailed indicates the store rejected the configured credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or out-of-bounds arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientContent indicates no content locator matched enough
	// text to make a useful document.
	ErrInsufficientContent = errors.New("insufficient content")

	// ErrUnsupportedSource indicates no extraction variant matches the URL.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrUnsupportedTarget indicates the URL matches a variant but points
	// at something it cannot extract, such as a repository directory.
	ErrUnsupportedTarget = errors.New("unsupported target")

	// ErrReadOnly indicates a write was attempted in read-only mode.
	ErrReadOnly = errors.New("server is read-only")
)

// FetchError indicates an outbound content fetch failed, either with a
// non-success status or a transport-level cause such as a timeout.
type FetchError struct {
	// URL is the resource that was fetched.
	URL string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// StoreError indicates an opaque document-store failure.
type StoreError struct {
	// Op is the store operation that failed, e.g. "create collection".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// TransportError indicates a session could not be established.
// It is fatal to the request only; the registry keeps serving other
// sessions.
type TransportError struct {
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}
