// Package domain defines the core business entities for the documentation
// MCP server.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored documentation record with metadata
//   - Extraction: The transient result of extracting a remote resource
//   - Config: The process-wide runtime configuration
//   - Session: A logical transport connection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
