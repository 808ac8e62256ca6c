package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driving"
)

func TestHandleExtract(t *testing.T) {
	t.Run("empty url is a validation error before any domain logic", func(t *testing.T) {
		ingestion := &mockIngestion{}
		server := newTestServer(ingestion, &mockConfig{})

		_, _, err := server.handleExtract(context.Background(), nil, ExtractInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeValidation)
		assert.Zero(t, ingestion.ingestCalls)
	})

	t.Run("maps the ingest result", func(t *testing.T) {
		ingestion := &mockIngestion{ingestResult: &driving.IngestResult{
			Document: &domain.Document{
				ID:    "rec-1",
				Title: "T",
				Metadata: map[string]any{
					domain.MetaURL:       "https://learn.microsoft.com/x",
					domain.MetaWordCount: 42,
				},
			},
			WasUpdate: true,
		}}
		server := newTestServer(ingestion, &mockConfig{})

		_, output, err := server.handleExtract(context.Background(), nil,
			ExtractInput{URL: "https://learn.microsoft.com/x"})
		require.NoError(t, err)
		assert.Equal(t, "rec-1", output.ID)
		assert.True(t, output.WasUpdate)
		assert.Equal(t, 42, output.WordCount)
		assert.Equal(t, "https://learn.microsoft.com/x", output.URL)
	})

	t.Run("unsupported source carries its code", func(t *testing.T) {
		ingestion := &mockIngestion{ingestErr: domain.ErrUnsupportedSource}
		server := newTestServer(ingestion, &mockConfig{})

		_, _, err := server.handleExtract(context.Background(), nil,
			ExtractInput{URL: "https://example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeUnsupportedSource)
	})
}

func TestHandleList(t *testing.T) {
	t.Run("rejects out-of-bounds limit", func(t *testing.T) {
		server := newTestServer(&mockIngestion{}, &mockConfig{})

		_, _, err := server.handleList(context.Background(), nil, ListInput{Limit: 101})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeValidation)
	})

	t.Run("rejects negative page", func(t *testing.T) {
		server := newTestServer(&mockIngestion{}, &mockConfig{})

		_, _, err := server.handleList(context.Background(), nil, ListInput{Page: -1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeValidation)
	})

	t.Run("config not ready carries its code", func(t *testing.T) {
		server := newTestServer(&mockIngestion{listErr: domain.ErrConfigNotReady}, &mockConfig{})

		_, _, err := server.handleList(context.Background(), nil, ListInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeConfigNotReady)
	})
}

func TestHandleSearch(t *testing.T) {
	t.Run("empty query is a validation error", func(t *testing.T) {
		server := newTestServer(&mockIngestion{}, &mockConfig{})

		_, _, err := server.handleSearch(context.Background(), nil, SearchInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeValidation)
	})

	t.Run("maps results to summaries", func(t *testing.T) {
		created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		server := newTestServer(&mockIngestion{searchResult: []domain.Document{{
			ID:        "rec-1",
			Title:     "T",
			Metadata:  map[string]any{domain.MetaURL: "u", domain.MetaSource: "github"},
			CreatedAt: created,
		}}}, &mockConfig{})

		_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "t"})
		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "github", output.Results[0].Source)
		assert.Equal(t, "2025-06-01T00:00:00Z", output.Results[0].Created)
	})
}

func TestHandleGet(t *testing.T) {
	t.Run("not found carries its code", func(t *testing.T) {
		server := newTestServer(&mockIngestion{getErr: domain.ErrNotFound}, &mockConfig{})

		_, _, err := server.handleGet(context.Background(), nil, GetInput{ID: "missing"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeNotFound)
	})
}

func TestHandleDelete(t *testing.T) {
	t.Run("read-only carries its code", func(t *testing.T) {
		server := newTestServer(&mockIngestion{deleteErr: domain.ErrReadOnly}, &mockConfig{})

		_, _, err := server.handleDelete(context.Background(), nil, DeleteInput{ID: "rec-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), CodeReadOnly)
	})

	t.Run("reports the deleted id", func(t *testing.T) {
		server := newTestServer(&mockIngestion{}, &mockConfig{})

		_, output, err := server.handleDelete(context.Background(), nil, DeleteInput{ID: "rec-1"})
		require.NoError(t, err)
		assert.True(t, output.Deleted)
		assert.Equal(t, "rec-1", output.ID)
	})
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"config not ready", domain.ErrConfigNotReady, CodeConfigNotReady},
		{"auth required", domain.ErrAuthRequired, CodeAuthRequired},
		{"auth failed", domain.ErrAuthFailed, CodeAuthFailed},
		{"insufficient content", domain.ErrInsufficientContent, CodeInsufficientContent},
		{"unsupported source", domain.ErrUnsupportedSource, CodeUnsupportedSource},
		{"unsupported target", domain.ErrUnsupportedTarget, CodeUnsupportedTarget},
		{"not found", domain.ErrNotFound, CodeNotFound},
		{"invalid input", domain.ErrInvalidInput, CodeValidation},
		{"read only", domain.ErrReadOnly, CodeReadOnly},
		{"fetch error", &domain.FetchError{URL: "u", StatusCode: 500}, CodeFetchError},
		{"store error", &domain.StoreError{Op: "op", Err: assert.AnError}, CodeStoreError},
		{"transport error", &domain.TransportError{Err: assert.AnError}, CodeTransportError},
		{"anything else", assert.AnError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, errorCode(tt.err))
		})
	}
}
