// Package driving defines the interfaces that transports call IN to core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement them; the MCP adapter depends on them.
package driving
