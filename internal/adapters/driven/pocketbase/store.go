// Package pocketbase provides a DocumentStore adapter backed by the
// PocketBase REST API.
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store talks to one PocketBase instance. It is bound to the endpoint,
// credentials and collection of a single Config instance; the ingestion
// service builds a fresh Store when configuration is swapped.
//
// Store calls carry no timeout of their own: writes run to completion or
// failure even when the caller has disconnected.
type Store struct {
	client     *http.Client
	baseURL    string
	email      string
	password   string
	collection string

	mu    sync.Mutex
	token string
}

// New creates a store for the given configuration.
func New(cfg *domain.Config) *Store {
	return &Store{
		client:     &http.Client{},
		baseURL:    strings.TrimRight(cfg.StoreURL, "/"),
		email:      cfg.AdminEmail,
		password:   cfg.AdminPassword,
		collection: cfg.Collection,
	}
}

// record is the PocketBase record shape for the documentation collection.
type record struct {
	ID       string         `json:"id,omitempty"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Created  string         `json:"created,omitempty"`
	Updated  string         `json:"updated,omitempty"`
}

// listResponse is the PocketBase paginated list shape.
type listResponse struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []record `json:"items"`
}

// authResponse is the admin auth-with-password response.
type authResponse struct {
	Token string `json:"token"`
}

// collectionField is one field of a collection schema.
type collectionField struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Required bool           `json:"required,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// createCollectionRequest is the collection creation payload.
type createCollectionRequest struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Schema []collectionField `json:"schema"`
}

// httpError carries a non-success store response.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

// Authenticate verifies admin credentials against the store.
func (s *Store) Authenticate(ctx context.Context) error {
	if s.email == "" || s.password == "" {
		return domain.ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authLocked(ctx)
}

// authLocked performs admin auth and caches the token.
// Caller must hold s.mu.
func (s *Store) authLocked(ctx context.Context) error {
	payload := map[string]string{
		"identity": s.email,
		"password": s.password,
	}

	var resp authResponse
	err := s.do(ctx, http.MethodPost, "/api/admins/auth-with-password", nil, payload, &resp)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) && (herr.status == http.StatusBadRequest || herr.status == http.StatusUnauthorized) {
			return fmt.Errorf("%w: %s", domain.ErrAuthFailed, herr.body)
		}
		return &domain.StoreError{Op: "authenticate", Err: err}
	}

	s.token = resp.Token
	return nil
}

// ensureToken authenticates lazily when credentials are configured.
func (s *Store) ensureToken(ctx context.Context) error {
	if s.email == "" || s.password == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return nil
	}
	return s.authLocked(ctx)
}

// EnsureCollection fetches the named collection, creating it with the
// document field schema when absent. Idempotent when it already exists;
// creation failures surface as StoreError, distinct from "exists".
func (s *Store) EnsureCollection(ctx context.Context) error {
	if err := s.ensureToken(ctx); err != nil {
		return err
	}

	err := s.do(ctx, http.MethodGet, "/api/collections/"+s.collection, nil, nil, nil)
	if err == nil {
		return nil
	}
	var herr *httpError
	if !errors.As(err, &herr) || herr.status != http.StatusNotFound {
		return &domain.StoreError{Op: "get collection", Err: err}
	}

	if s.email == "" || s.password == "" {
		// Collection management always needs admin rights.
		return domain.ErrAuthRequired
	}

	req := createCollectionRequest{
		Name: s.collection,
		Type: "base",
		Schema: []collectionField{
			{Name: "title", Type: "text", Required: true, Options: map[string]any{"max": domain.MaxTitleLength}},
			{Name: "content", Type: "text", Required: true},
			{Name: "metadata", Type: "json"},
		},
	}
	if err := s.do(ctx, http.MethodPost, "/api/collections", nil, req, nil); err != nil {
		return &domain.StoreError{Op: "create collection", Err: err}
	}
	return nil
}

// CollectionInfo reports the collection's existence and record count.
func (s *Store) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	info := &domain.CollectionInfo{Name: s.collection}

	err := s.do(ctx, http.MethodGet, "/api/collections/"+s.collection, nil, nil, nil)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.status == http.StatusNotFound {
			return info, nil
		}
		return nil, &domain.StoreError{Op: "get collection", Err: err}
	}
	info.Exists = true

	var resp listResponse
	query := url.Values{"perPage": {"1"}}
	if err := s.do(ctx, http.MethodGet, s.recordsPath(), query, nil, &resp); err != nil {
		return nil, &domain.StoreError{Op: "count records", Err: err}
	}
	info.TotalRecords = resp.TotalItems
	return info, nil
}

// FindByURL returns the document whose metadata URL equals url, or nil.
func (s *Store) FindByURL(ctx context.Context, rawURL string) (*domain.Document, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	query := url.Values{
		"page":    {"1"},
		"perPage": {"1"},
		"filter":  {fmt.Sprintf("metadata.url = %s", quoteFilter(rawURL))},
	}

	var resp listResponse
	if err := s.do(ctx, http.MethodGet, s.recordsPath(), query, nil, &resp); err != nil {
		return nil, &domain.StoreError{Op: "find by url", Err: err}
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	doc := toDocument(resp.Items[0])
	return &doc, nil
}

// Create stores a new document and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	payload := record{
		Title:    doc.Title,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}

	var created record
	if err := s.do(ctx, http.MethodPost, s.recordsPath(), nil, payload, &created); err != nil {
		return nil, &domain.StoreError{Op: "create record", Err: err}
	}
	out := toDocument(created)
	return &out, nil
}

// Update replaces an existing document's fields, preserving its ID.
func (s *Store) Update(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	payload := record{
		Title:    doc.Title,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}

	var updated record
	err := s.do(ctx, http.MethodPatch, s.recordsPath()+"/"+doc.ID, nil, payload, &updated)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.status == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StoreError{Op: "update record", Err: err}
	}
	out := toDocument(updated)
	return &out, nil
}

// GetByID returns a document, or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	var rec record
	err := s.do(ctx, http.MethodGet, s.recordsPath()+"/"+id, nil, nil, &rec)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.status == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StoreError{Op: "get record", Err: err}
	}
	doc := toDocument(rec)
	return &doc, nil
}

// DeleteByID removes a document, or domain.ErrNotFound.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := s.ensureToken(ctx); err != nil {
		return err
	}

	err := s.do(ctx, http.MethodDelete, s.recordsPath()+"/"+id, nil, nil, nil)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.status == http.StatusNotFound {
			return domain.ErrNotFound
		}
		return &domain.StoreError{Op: "delete record", Err: err}
	}
	return nil
}

// List returns one page of documents, newest first.
func (s *Store) List(ctx context.Context, page, perPage int) (*domain.DocumentPage, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	query := url.Values{
		"page":    {strconv.Itoa(page)},
		"perPage": {strconv.Itoa(perPage)},
		"sort":    {"-created"},
	}

	var resp listResponse
	if err := s.do(ctx, http.MethodGet, s.recordsPath(), query, nil, &resp); err != nil {
		return nil, &domain.StoreError{Op: "list records", Err: err}
	}

	out := &domain.DocumentPage{
		Page:       resp.Page,
		PerPage:    resp.PerPage,
		TotalItems: resp.TotalItems,
		TotalPages: resp.TotalPages,
		Documents:  make([]domain.Document, len(resp.Items)),
	}
	for i := range resp.Items {
		out.Documents[i] = toDocument(resp.Items[i])
	}
	return out, nil
}

// Search returns documents whose title or content matches query.
func (s *Store) Search(ctx context.Context, queryText string, limit int) ([]domain.Document, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}

	q := quoteFilter(queryText)
	query := url.Values{
		"page":    {"1"},
		"perPage": {strconv.Itoa(limit)},
		"sort":    {"-created"},
		"filter":  {fmt.Sprintf("(title ~ %s || content ~ %s)", q, q)},
	}

	var resp listResponse
	if err := s.do(ctx, http.MethodGet, s.recordsPath(), query, nil, &resp); err != nil {
		return nil, &domain.StoreError{Op: "search records", Err: err}
	}

	docs := make([]domain.Document, len(resp.Items))
	for i := range resp.Items {
		docs[i] = toDocument(resp.Items[i])
	}
	return docs, nil
}

// do performs one REST call, decoding a 2xx body into out when out is
// non-nil. Non-success statuses come back as *httpError.
func (s *Store) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.mu.Lock()
	if s.token != "" {
		req.Header.Set("Authorization", s.token)
	}
	s.mu.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (s *Store) recordsPath() string {
	return "/api/collections/" + s.collection + "/records"
}

// quoteFilter quotes a string literal for a PocketBase filter expression.
func quoteFilter(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// toDocument maps a PocketBase record to the domain shape.
func toDocument(rec record) domain.Document {
	return domain.Document{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   rec.Content,
		Metadata:  rec.Metadata,
		CreatedAt: parseTime(rec.Created),
		UpdatedAt: parseTime(rec.Updated),
	}
}

// parseTime handles both RFC 3339 and PocketBase's space-separated
// datetime format.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05.999Z", s); err == nil {
		return t
	}
	return time.Time{}
}
