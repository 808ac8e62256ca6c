package driven

import (
	"context"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

// DocumentStore persists documents in a named collection.
// Implementations take the collection name and endpoint from the
// Configuration current at call time.
type DocumentStore interface {
	// Authenticate verifies credentials against the store.
	// Returns domain.ErrAuthRequired when no credentials are configured
	// and domain.ErrAuthFailed when the store rejects them.
	Authenticate(ctx context.Context) error

	// EnsureCollection fetches the named collection, creating it with the
	// document field schema if it is absent. Safe to call when the
	// collection already exists.
	EnsureCollection(ctx context.Context) error

	// CollectionInfo reports the collection's existence and record count.
	CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error)

	// FindByURL returns the document whose metadata URL equals url,
	// or nil if no such document exists.
	//
	// A find followed by Create/Update is NOT atomic: two concurrent
	// ingests of the same URL can both observe nil and both create.
	FindByURL(ctx context.Context, url string) (*domain.Document, error)

	// Create stores a new document and returns it with its assigned ID.
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)

	// Update replaces the title/content/metadata of an existing document,
	// preserving its ID. Returns domain.ErrNotFound for unknown IDs.
	Update(ctx context.Context, doc *domain.Document) (*domain.Document, error)

	// GetByID returns a document, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Document, error)

	// DeleteByID removes a document, or domain.ErrNotFound.
	DeleteByID(ctx context.Context, id string) error

	// List returns one page of documents, newest first.
	List(ctx context.Context, page, perPage int) (*domain.DocumentPage, error)

	// Search returns documents whose title or content matches query.
	Search(ctx context.Context, query string, limit int) ([]domain.Document, error)
}
