package mcp

import (
	"context"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driving"
)

// mockIngestion returns canned results and records calls.
type mockIngestion struct {
	ingestResult *driving.IngestResult
	ingestErr    error
	listResult   *domain.DocumentPage
	listErr      error
	searchResult []domain.Document
	getResult    *domain.Document
	getErr       error
	deleteErr    error
	info         *domain.CollectionInfo
	status       *driving.ConnectionStatus

	ingestCalls int
	deleteCalls int
}

func (m *mockIngestion) Ingest(_ context.Context, _ string) (*driving.IngestResult, error) {
	m.ingestCalls++
	return m.ingestResult, m.ingestErr
}

func (m *mockIngestion) List(_ context.Context, _, _ int) (*domain.DocumentPage, error) {
	if m.listResult == nil && m.listErr == nil {
		return &domain.DocumentPage{}, nil
	}
	return m.listResult, m.listErr
}

func (m *mockIngestion) Search(_ context.Context, _ string, _ int) ([]domain.Document, error) {
	return m.searchResult, nil
}

func (m *mockIngestion) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.getResult, m.getErr
}

func (m *mockIngestion) Delete(_ context.Context, _ string) error {
	m.deleteCalls++
	return m.deleteErr
}

func (m *mockIngestion) EnsureCollection(_ context.Context) error { return nil }

func (m *mockIngestion) CollectionInfo(_ context.Context) (*domain.CollectionInfo, error) {
	if m.info == nil {
		return &domain.CollectionInfo{Name: "documentation", Exists: true}, nil
	}
	return m.info, nil
}

func (m *mockIngestion) ConnectionStatus(_ context.Context) (*driving.ConnectionStatus, error) {
	if m.status == nil {
		return &driving.ConnectionStatus{Connected: true}, nil
	}
	return m.status, nil
}

// mockConfig records overrides.
type mockConfig struct {
	overrides   []map[string]string
	initialized bool
}

func (m *mockConfig) ApplyOverrides(o map[string]string) {
	m.overrides = append(m.overrides, o)
}

func (m *mockConfig) Initialized() bool { return m.initialized }

func newTestServer(ingestion *mockIngestion, config *mockConfig) *Server {
	server, err := NewServer(&Ports{Ingestion: ingestion, Config: config}, nil)
	if err != nil {
		panic(err)
	}
	return server
}
