// Package extractors selects and runs content extraction variants.
//
// Each variant implements driven.Extractor and claims URLs by host/path
// shape. Variants are consulted in registration order; the first match
// wins. The set is an extension point: new providers register a new
// variant, nothing else changes.
package extractors
