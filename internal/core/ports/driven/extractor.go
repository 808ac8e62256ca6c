package driven

import (
	"context"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

// Extractor is one content extraction variant.
// Variants are registered in an ordered list; the first whose Matches
// returns true handles the URL. "No match" is a normal outcome that the
// registry reports as domain.ErrUnsupportedSource.
type Extractor interface {
	// Source identifies the provider this variant extracts from.
	Source() domain.Source

	// Matches reports whether this variant handles the URL.
	// It must not perform network I/O.
	Matches(url string) bool

	// Extract fetches the resource and normalises it.
	Extract(ctx context.Context, url string) (*domain.Extraction, error)
}
