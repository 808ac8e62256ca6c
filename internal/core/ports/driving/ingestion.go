package driving

import (
	"context"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

// IngestResult is the outcome of ingesting a URL.
type IngestResult struct {
	// Document is the stored record after the upsert.
	Document *domain.Document

	// WasUpdate is true when an existing document was replaced rather
	// than a new one created.
	WasUpdate bool
}

// ConnectionStatus reports store reachability for the status tool.
type ConnectionStatus struct {
	// Connected is true when the store answered.
	Connected bool

	// Authenticated is true when admin credentials were accepted.
	Authenticated bool

	// StoreURL is the endpoint that was checked.
	StoreURL string

	// Collection is the configured collection name.
	Collection string

	// Error holds the failure description when Connected is false.
	Error string
}

// IngestionService is the single driving port for all tool operations.
type IngestionService interface {
	// Ingest extracts the URL and upserts the result by URL identity.
	Ingest(ctx context.Context, url string) (*IngestResult, error)

	// List returns one page of stored documents, newest first.
	List(ctx context.Context, limit, page int) (*domain.DocumentPage, error)

	// Search returns documents matching the query text.
	Search(ctx context.Context, query string, limit int) ([]domain.Document, error)

	// Get returns a document by store ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document by store ID.
	Delete(ctx context.Context, id string) error

	// EnsureCollection creates the backing collection if absent.
	EnsureCollection(ctx context.Context) error

	// CollectionInfo reports collection existence and record count.
	CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error)

	// ConnectionStatus checks store reachability and authentication.
	ConnectionStatus(ctx context.Context) (*ConnectionStatus, error)
}
