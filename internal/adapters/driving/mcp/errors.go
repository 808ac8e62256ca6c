// Package mcp exposes the documentation tools over the Model Context
// Protocol: stdio, streamable HTTP and SSE transports share one logical
// tool surface.
package mcp

import (
	"errors"
	"fmt"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

// ErrMissingIngestionService is returned when the ingestion service is
// not provided.
var ErrMissingIngestionService = errors.New("mcp: ingestion service is required")

// ErrMissingConfigManager is returned when the config manager is not
// provided.
var ErrMissingConfigManager = errors.New("mcp: config manager is required")

// Error codes surfaced to MCP clients. Domain error kinds map to codes
// here, at the transport boundary only; the rest of the system never
// sees these strings.
const (
	CodeConfigNotReady      = "CONFIG_NOT_READY"
	CodeAuthRequired        = "AUTH_REQUIRED"
	CodeAuthFailed          = "AUTH_FAILED"
	CodeFetchError          = "FETCH_ERROR"
	CodeInsufficientContent = "INSUFFICIENT_CONTENT"
	CodeUnsupportedSource   = "UNSUPPORTED_SOURCE"
	CodeUnsupportedTarget   = "UNSUPPORTED_TARGET"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeReadOnly            = "READ_ONLY"
	CodeStoreError          = "STORE_ERROR"
	CodeTransportError      = "TRANSPORT_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
)

// errorCode classifies a failure for the client.
func errorCode(err error) string {
	var (
		fetchErr     *domain.FetchError
		storeErr     *domain.StoreError
		transportErr *domain.TransportError
	)

	switch {
	case errors.Is(err, domain.ErrConfigNotReady):
		return CodeConfigNotReady
	case errors.Is(err, domain.ErrAuthRequired):
		return CodeAuthRequired
	case errors.Is(err, domain.ErrAuthFailed):
		return CodeAuthFailed
	case errors.Is(err, domain.ErrInsufficientContent):
		return CodeInsufficientContent
	case errors.Is(err, domain.ErrUnsupportedSource):
		return CodeUnsupportedSource
	case errors.Is(err, domain.ErrUnsupportedTarget):
		return CodeUnsupportedTarget
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, domain.ErrReadOnly):
		return CodeReadOnly
	case errors.As(err, &fetchErr):
		return CodeFetchError
	case errors.As(err, &storeErr):
		return CodeStoreError
	case errors.As(err, &transportErr):
		return CodeTransportError
	default:
		return CodeInternal
	}
}

// codedError wraps a failure as a structured tool error. The MCP SDK
// converts it into an error-flagged tool result, so the session stays
// usable for the next invocation.
func codedError(err error) error {
	return fmt.Errorf("[%s] %v", errorCode(err), err)
}
