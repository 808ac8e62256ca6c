package mcp

import (
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driving"
)

// ConfigLifecycle is the slice of the configuration manager the
// transport layer needs: applying request-level overrides and reporting
// liveness without forcing initialisation.
type ConfigLifecycle interface {
	// ApplyOverrides merges dotted-key overrides and invalidates the
	// current configuration.
	ApplyOverrides(overrides map[string]string)

	// Initialized reports whether configuration has been built.
	Initialized() bool
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingestion serves all tool operations.
	Ingestion driving.IngestionService

	// Config receives request-level configuration overrides.
	Config ConfigLifecycle
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	if p.Config == nil {
		return ErrMissingConfigManager
	}
	return nil
}
