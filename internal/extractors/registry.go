package extractors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driven"
	githubx "github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/extractors/github"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/extractors/mslearn"
)

// Registry is an ordered list of extraction variants.
type Registry struct {
	extractors []driven.Extractor
	logger     *zap.Logger
}

// NewRegistry creates a registry consulting the variants in order.
func NewRegistry(logger *zap.Logger, variants ...driven.Extractor) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{extractors: variants, logger: logger}
}

// NewDefaultRegistry creates a registry with the built-in variants:
// Microsoft Learn first, then GitHub.
func NewDefaultRegistry(logger *zap.Logger, githubToken string) *Registry {
	return NewRegistry(logger,
		mslearn.New(),
		githubx.New(githubToken),
	)
}

// Match returns the first variant claiming the URL, or nil.
// It performs no network I/O.
func (r *Registry) Match(url string) driven.Extractor {
	for _, e := range r.extractors {
		if e.Matches(url) {
			return e
		}
	}
	return nil
}

// Extract runs the first matching variant. A URL no variant claims
// fails with domain.ErrUnsupportedSource before any network call.
func (r *Registry) Extract(ctx context.Context, url string) (*domain.Extraction, error) {
	extractor := r.Match(url)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, url)
	}

	r.logger.Debug("extracting",
		zap.String("url", url),
		zap.String("source", extractor.Source().String()))
	return extractor.Extract(ctx, url)
}
