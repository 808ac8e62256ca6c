package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

func testConfig(url string) *domain.Config {
	return &domain.Config{
		StoreURL:   url,
		Collection: "documentation",
	}
}

func authedConfig(url string) *domain.Config {
	cfg := testConfig(url)
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "secret"
	return cfg
}

func TestStore_Authenticate(t *testing.T) {
	t.Run("no credentials requires auth", func(t *testing.T) {
		store := New(testConfig("http://unused.example"))
		err := store.Authenticate(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("valid credentials cache the token", func(t *testing.T) {
		var authCalls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/admins/auth-with-password", r.URL.Path)
			authCalls++

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "admin@example.com", payload["identity"])

			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"}) //nolint:errcheck
		}))
		defer server.Close()

		store := New(authedConfig(server.URL))
		require.NoError(t, store.Authenticate(context.Background()))
		assert.Equal(t, 1, authCalls)
	})

	t.Run("rejected credentials fail auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Failed to authenticate."}`)) //nolint:errcheck
		}))
		defer server.Close()

		store := New(authedConfig(server.URL))
		err := store.Authenticate(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthFailed)
	})
}

func TestStore_EnsureCollection(t *testing.T) {
	t.Run("existing collection is a no-op", func(t *testing.T) {
		var created bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/api/collections/documentation":
				w.Write([]byte(`{"id":"col1","name":"documentation"}`)) //nolint:errcheck
			case r.Method == http.MethodPost && r.URL.Path == "/api/collections":
				created = true
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		store := New(testConfig(server.URL))
		require.NoError(t, store.EnsureCollection(context.Background()))
		assert.False(t, created)
	})

	t.Run("absent collection is created with the schema", func(t *testing.T) {
		var created createCollectionRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/api/admins/auth-with-password":
				json.NewEncoder(w).Encode(map[string]string{"token": "tok"}) //nolint:errcheck
			case r.Method == http.MethodGet && r.URL.Path == "/api/collections/documentation":
				w.WriteHeader(http.StatusNotFound)
			case r.Method == http.MethodPost && r.URL.Path == "/api/collections":
				require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		store := New(authedConfig(server.URL))
		require.NoError(t, store.EnsureCollection(context.Background()))

		assert.Equal(t, "documentation", created.Name)
		assert.Equal(t, "base", created.Type)
		fields := make([]string, len(created.Schema))
		for i, f := range created.Schema {
			fields[i] = f.Name
		}
		assert.Equal(t, []string{"title", "content", "metadata"}, fields)
	})

	t.Run("creation needs credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		store := New(testConfig(server.URL))
		err := store.EnsureCollection(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("creation failure is a store error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/admins/auth-with-password":
				json.NewEncoder(w).Encode(map[string]string{"token": "tok"}) //nolint:errcheck
			case "/api/collections":
				w.WriteHeader(http.StatusForbidden)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		store := New(authedConfig(server.URL))
		err := store.EnsureCollection(context.Background())
		var serr *domain.StoreError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "create collection", serr.Op)
	})
}

func TestStore_Records(t *testing.T) {
	type recordServer struct {
		*httptest.Server
		lastQuery map[string]string
	}

	newRecordServer := func(t *testing.T, handler http.HandlerFunc) *recordServer {
		t.Helper()
		rs := &recordServer{}
		rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rs.lastQuery = map[string]string{}
			for k, v := range r.URL.Query() {
				rs.lastQuery[k] = v[0]
			}
			handler(w, r)
		}))
		t.Cleanup(rs.Close)
		return rs
	}

	t.Run("get by id maps 404 to not found", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		store := New(testConfig(server.URL))
		_, err := store.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete maps 404 to not found", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		store := New(testConfig(server.URL))
		err := store.DeleteByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("find by url returns nil on no match", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(listResponse{Page: 1, PerPage: 1}) //nolint:errcheck
		})

		store := New(testConfig(server.URL))
		doc, err := store.FindByURL(context.Background(), "https://example.com/x")
		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.Equal(t, `metadata.url = 'https://example.com/x'`, server.lastQuery["filter"])
	})

	t.Run("find by url maps the first item", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(listResponse{ //nolint:errcheck
				Page: 1, PerPage: 1, TotalItems: 1,
				Items: []record{{
					ID: "rec-1", Title: "T", Content: "C",
					Metadata: map[string]any{"url": "https://example.com/x"},
					Created:  "2025-06-01 10:00:00.000Z",
				}},
			})
		})

		store := New(testConfig(server.URL))
		doc, err := store.FindByURL(context.Background(), "https://example.com/x")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "rec-1", doc.ID)
		assert.Equal(t, "https://example.com/x", doc.URL())
		assert.Equal(t, 2025, doc.CreatedAt.Year())
	})

	t.Run("create posts the record shape", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			var rec record
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
			rec.ID = "rec-9"
			json.NewEncoder(w).Encode(rec) //nolint:errcheck
		})

		store := New(testConfig(server.URL))
		doc, err := store.Create(context.Background(), &domain.Document{
			Title:    "T",
			Content:  "C",
			Metadata: map[string]any{"url": "u"},
		})
		require.NoError(t, err)
		assert.Equal(t, "rec-9", doc.ID)
		assert.Equal(t, "T", doc.Title)
	})

	t.Run("list passes paging and sort", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(listResponse{Page: 2, PerPage: 5, TotalItems: 11, TotalPages: 3}) //nolint:errcheck
		})

		store := New(testConfig(server.URL))
		page, err := store.List(context.Background(), 2, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 11, page.TotalItems)
		assert.Equal(t, "2", server.lastQuery["page"])
		assert.Equal(t, "5", server.lastQuery["perPage"])
		assert.Equal(t, "-created", server.lastQuery["sort"])
	})

	t.Run("search filters on title and content", func(t *testing.T) {
		server := newRecordServer(t, func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(listResponse{}) //nolint:errcheck
		})

		store := New(testConfig(server.URL))
		_, err := store.Search(context.Background(), "azure", 10)
		require.NoError(t, err)
		assert.Equal(t, `(title ~ 'azure' || content ~ 'azure')`, server.lastQuery["filter"])
	})
}

func TestQuoteFilter(t *testing.T) {
	assert.Equal(t, `'plain'`, quoteFilter("plain"))
	assert.Equal(t, `'it\'s'`, quoteFilter("it's"))
	assert.Equal(t, `'a\\b'`, quoteFilter(`a\b`))
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, 2025, parseTime("2025-06-01 10:00:00.000Z").Year())
	assert.Equal(t, 2025, parseTime("2025-06-01T10:00:00Z").Year())
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("garbage").IsZero())
}
