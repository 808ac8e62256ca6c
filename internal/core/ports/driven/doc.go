// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - DocumentStore: document persistence (PocketBase)
//   - Extractor: one content extraction variant, selected by URL shape
package driven
