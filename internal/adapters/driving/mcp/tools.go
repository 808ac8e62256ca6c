package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/services"
)

// ExtractInput is the input schema for the extract_document tool.
type ExtractInput struct {
	URL string `json:"url" jsonschema:"the Microsoft Learn page or GitHub file URL to extract and store"`
}

// ExtractOutput is the output schema for the extract_document tool.
type ExtractOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	WasUpdate bool   `json:"wasUpdate"`
	WordCount int    `json:"wordCount,omitempty"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"documents per page, 1-100 (default 20)"`
	Page  int `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents  []DocumentSummary `json:"documents"`
	Page       int               `json:"page"`
	TotalItems int               `json:"totalItems"`
	TotalPages int               `json:"totalPages"`
}

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to match against document titles and content"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, 1-100 (default 20)"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []DocumentSummary `json:"results"`
	Count   int               `json:"count"`
}

// GetInput is the input schema for the get_document tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"the store-assigned document identifier"`
}

// GetOutput is the output schema for the get_document tool.
type GetOutput struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Created  string         `json:"created,omitempty"`
	Updated  string         `json:"updated,omitempty"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	ID string `json:"id" jsonschema:"the store-assigned document identifier"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// EnsureCollectionOutput is the output schema for the ensure_collection tool.
type EnsureCollectionOutput struct {
	Collection string `json:"collection"`
	Ready      bool   `json:"ready"`
}

// CollectionInfoOutput is the output schema for the collection_info tool.
type CollectionInfoOutput struct {
	Name         string `json:"name"`
	Exists       bool   `json:"exists"`
	TotalRecords int    `json:"totalRecords"`
}

// ConnectionStatusOutput is the output schema for the connection_status tool.
type ConnectionStatusOutput struct {
	Connected     bool   `json:"connected"`
	Authenticated bool   `json:"authenticated"`
	StoreURL      string `json:"storeUrl"`
	Collection    string `json:"collection"`
	Error         string `json:"error,omitempty"`
}

// DocumentSummary is the shared list/search result shape.
type DocumentSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Source  string `json:"source,omitempty"`
	Created string `json:"created,omitempty"`
}

// emptyInput is the schema for tools that take no arguments.
type emptyInput struct{}

// registerTools registers all tool handlers on a protocol server
// instance. Called once per session so handler state is session-local.
func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_document",
		Description: "Extract a documentation page or GitHub file and store it, updating any existing document for the same URL",
	}, s.handleExtract)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List stored documents, newest first",
	}, s.handleList)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search stored documents by title and content",
	}, s.handleSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get a stored document by its identifier",
	}, s.handleGet)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a stored document by its identifier",
	}, s.handleDelete)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ensure_collection",
		Description: "Create the backing collection if it does not exist yet",
	}, s.handleEnsureCollection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "collection_info",
		Description: "Report the backing collection's existence and record count",
	}, s.handleCollectionInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "connection_status",
		Description: "Check connectivity and authentication against the document store",
	}, s.handleConnectionStatus)
}

// handleExtract handles the extract_document tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	if input.URL == "" {
		return nil, ExtractOutput{}, codedError(fmt.Errorf("%w: url is required", domain.ErrInvalidInput))
	}

	result, err := s.ports.Ingestion.Ingest(ctx, input.URL)
	if err != nil {
		return nil, ExtractOutput{}, codedError(err)
	}

	doc := result.Document
	output := ExtractOutput{
		ID:        doc.ID,
		Title:     doc.Title,
		URL:       doc.URL(),
		WasUpdate: result.WasUpdate,
	}
	switch wc := doc.Metadata[domain.MetaWordCount].(type) {
	case int:
		output.WordCount = wc
	case float64:
		// Round-tripped through the store's JSON field.
		output.WordCount = int(wc)
	}
	return nil, output, nil
}

// handleList handles the list_documents tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = services.DefaultPageSize
	}
	if limit < services.MinPageSize || limit > services.MaxPageSize {
		return nil, ListOutput{}, codedError(fmt.Errorf("%w: limit must be between %d and %d",
			domain.ErrInvalidInput, services.MinPageSize, services.MaxPageSize))
	}
	page := input.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ListOutput{}, codedError(fmt.Errorf("%w: page must be positive", domain.ErrInvalidInput))
	}

	result, err := s.ports.Ingestion.List(ctx, limit, page)
	if err != nil {
		return nil, ListOutput{}, codedError(err)
	}

	output := ListOutput{
		Documents:  make([]DocumentSummary, len(result.Documents)),
		Page:       result.Page,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i := range result.Documents {
		output.Documents[i] = summarize(&result.Documents[i])
	}
	return nil, output, nil
}

// handleSearch handles the search_documents tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, codedError(fmt.Errorf("%w: query is required", domain.ErrInvalidInput))
	}
	limit := input.Limit
	if limit == 0 {
		limit = services.DefaultPageSize
	}
	if limit < services.MinPageSize || limit > services.MaxPageSize {
		return nil, SearchOutput{}, codedError(fmt.Errorf("%w: limit must be between %d and %d",
			domain.ErrInvalidInput, services.MinPageSize, services.MaxPageSize))
	}

	results, err := s.ports.Ingestion.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, codedError(err)
	}

	output := SearchOutput{
		Results: make([]DocumentSummary, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = summarize(&results[i])
	}
	return nil, output, nil
}

// handleGet handles the get_document tool invocation.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, GetOutput, error) {
	if input.ID == "" {
		return nil, GetOutput{}, codedError(fmt.Errorf("%w: id is required", domain.ErrInvalidInput))
	}

	doc, err := s.ports.Ingestion.Get(ctx, input.ID)
	if err != nil {
		return nil, GetOutput{}, codedError(err)
	}

	output := GetOutput{
		ID:       doc.ID,
		Title:    doc.Title,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}
	if !doc.CreatedAt.IsZero() {
		output.Created = doc.CreatedAt.Format(time.RFC3339)
	}
	if !doc.UpdatedAt.IsZero() {
		output.Updated = doc.UpdatedAt.Format(time.RFC3339)
	}
	return nil, output, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, codedError(fmt.Errorf("%w: id is required", domain.ErrInvalidInput))
	}

	if err := s.ports.Ingestion.Delete(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, codedError(err)
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}

// handleEnsureCollection handles the ensure_collection tool invocation.
func (s *Server) handleEnsureCollection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ emptyInput,
) (*mcp.CallToolResult, EnsureCollectionOutput, error) {
	if err := s.ports.Ingestion.EnsureCollection(ctx); err != nil {
		return nil, EnsureCollectionOutput{}, codedError(err)
	}

	info, err := s.ports.Ingestion.CollectionInfo(ctx)
	if err != nil {
		return nil, EnsureCollectionOutput{}, codedError(err)
	}
	return nil, EnsureCollectionOutput{Collection: info.Name, Ready: info.Exists}, nil
}

// handleCollectionInfo handles the collection_info tool invocation.
func (s *Server) handleCollectionInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ emptyInput,
) (*mcp.CallToolResult, CollectionInfoOutput, error) {
	info, err := s.ports.Ingestion.CollectionInfo(ctx)
	if err != nil {
		return nil, CollectionInfoOutput{}, codedError(err)
	}
	return nil, CollectionInfoOutput{
		Name:         info.Name,
		Exists:       info.Exists,
		TotalRecords: info.TotalRecords,
	}, nil
}

// handleConnectionStatus handles the connection_status tool invocation.
func (s *Server) handleConnectionStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ emptyInput,
) (*mcp.CallToolResult, ConnectionStatusOutput, error) {
	status, err := s.ports.Ingestion.ConnectionStatus(ctx)
	if err != nil {
		return nil, ConnectionStatusOutput{}, codedError(err)
	}
	return nil, ConnectionStatusOutput{
		Connected:     status.Connected,
		Authenticated: status.Authenticated,
		StoreURL:      status.StoreURL,
		Collection:    status.Collection,
		Error:         status.Error,
	}, nil
}

// summarize maps a document to its list/search summary.
func summarize(doc *domain.Document) DocumentSummary {
	summary := DocumentSummary{
		ID:    doc.ID,
		Title: doc.Title,
		URL:   doc.URL(),
	}
	if doc.Metadata != nil {
		if src, ok := doc.Metadata[domain.MetaSource].(string); ok {
			summary.Source = src
		}
	}
	if !doc.CreatedAt.IsZero() {
		summary.Created = doc.CreatedAt.Format(time.RFC3339)
	}
	return summary
}
