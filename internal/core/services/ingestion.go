package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driven"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driving"
)

// Page size bounds for listing and searching.
const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// Ensure Ingestion implements the driving port.
var _ driving.IngestionService = (*Ingestion)(nil)

// ExtractionPipeline selects an extraction variant for a URL and runs it.
// Implemented by the extractors registry.
type ExtractionPipeline interface {
	Extract(ctx context.Context, url string) (*domain.Extraction, error)
}

// StoreFactory builds a document store for a configuration instance.
// The ingestion service calls it again whenever the configuration is
// swapped, so per-request overrides reach the store layer.
type StoreFactory func(cfg *domain.Config) driven.DocumentStore

// Ingestion orchestrates extraction and persistence. All operations
// ensure configuration is ready before touching the store.
type Ingestion struct {
	config   *ConfigManager
	pipeline ExtractionPipeline
	newStore StoreFactory
	logger   *zap.Logger

	mu       sync.Mutex
	storeCfg *domain.Config
	store    driven.DocumentStore
}

// NewIngestion creates the ingestion service.
func NewIngestion(config *ConfigManager, pipeline ExtractionPipeline, newStore StoreFactory, logger *zap.Logger) *Ingestion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestion{
		config:   config,
		pipeline: pipeline,
		newStore: newStore,
		logger:   logger,
	}
}

// ready ensures configuration is initialised and returns the store bound
// to the current configuration instance. A configuration swap (override,
// file change) yields a fresh store on the next call.
func (s *Ingestion) ready() (*domain.Config, driven.DocumentStore, error) {
	cfg, err := s.config.EnsureReady()
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeCfg != cfg {
		s.store = s.newStore(cfg)
		s.storeCfg = cfg
	}
	return cfg, s.store, nil
}

// Ingest extracts the URL and upserts the result keyed by URL identity.
//
// The find-then-write below is not atomic against the store: two
// concurrent ingests of the same URL can both observe "no match" and
// both create. PocketBase offers no compare-and-swap over this surface,
// so the window is accepted and documented rather than hidden.
func (s *Ingestion) Ingest(ctx context.Context, url string) (*driving.IngestResult, error) {
	cfg, store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if cfg.ReadOnly {
		return nil, domain.ErrReadOnly
	}

	extraction, err := s.pipeline.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	identity, _ := extraction.Metadata[domain.MetaURL].(string)
	existing, err := store.FindByURL(ctx, identity)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		Title:    extraction.Title,
		Content:  extraction.Content,
		Metadata: extraction.Metadata,
	}

	if existing == nil {
		created, err := store.Create(ctx, doc)
		if err != nil {
			return nil, err
		}
		s.logger.Info("document created",
			zap.String("id", created.ID),
			zap.String("url", identity))
		return &driving.IngestResult{Document: created, WasUpdate: false}, nil
	}

	doc.ID = existing.ID
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now()
	updated, err := store.Update(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.logger.Info("document updated",
		zap.String("id", updated.ID),
		zap.String("url", identity))
	return &driving.IngestResult{Document: updated, WasUpdate: true}, nil
}

// List returns one page of stored documents, newest first.
func (s *Ingestion) List(ctx context.Context, limit, page int) (*domain.DocumentPage, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < MinPageSize || limit > MaxPageSize {
		return nil, domain.ErrInvalidInput
	}
	if page < 1 {
		return nil, domain.ErrInvalidInput
	}

	_, store, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.List(ctx, page, limit)
}

// Search returns documents whose title or content matches the query.
func (s *Ingestion) Search(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < MinPageSize || limit > MaxPageSize {
		return nil, domain.ErrInvalidInput
	}

	_, store, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.Search(ctx, query, limit)
}

// Get returns a document by store ID.
func (s *Ingestion) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	_, store, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.GetByID(ctx, id)
}

// Delete removes a document by store ID.
func (s *Ingestion) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	cfg, store, err := s.ready()
	if err != nil {
		return err
	}
	if cfg.ReadOnly {
		return domain.ErrReadOnly
	}
	return store.DeleteByID(ctx, id)
}

// EnsureCollection creates the backing collection if absent.
func (s *Ingestion) EnsureCollection(ctx context.Context) error {
	_, store, err := s.ready()
	if err != nil {
		return err
	}
	return store.EnsureCollection(ctx)
}

// CollectionInfo reports collection existence and record count.
func (s *Ingestion) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	_, store, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.CollectionInfo(ctx)
}

// ConnectionStatus checks store reachability and authentication.
func (s *Ingestion) ConnectionStatus(ctx context.Context) (*driving.ConnectionStatus, error) {
	cfg, store, err := s.ready()
	if err != nil {
		return nil, err
	}

	status := &driving.ConnectionStatus{
		StoreURL:   cfg.StoreURL,
		Collection: cfg.Collection,
	}

	switch err := store.Authenticate(ctx); {
	case err == nil:
		status.Connected = true
		status.Authenticated = true
	case errors.Is(err, domain.ErrAuthRequired):
		// No credentials configured. The store may still be reachable
		// for unauthenticated reads.
		if _, infoErr := store.CollectionInfo(ctx); infoErr == nil {
			status.Connected = true
		} else {
			status.Error = infoErr.Error()
		}
	case errors.Is(err, domain.ErrAuthFailed):
		status.Connected = true
		status.Error = err.Error()
	default:
		status.Error = err.Error()
	}

	return status, nil
}
