package mcp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

func TestRegistry_Resolve(t *testing.T) {
	t.Run("known id reuses the session", func(t *testing.T) {
		r := NewRegistry(nil)

		first, created := r.Resolve("abc", domain.TransportHTTP)
		require.True(t, created)

		second, created := r.Resolve("abc", domain.TransportHTTP)
		assert.False(t, created)
		assert.Same(t, first, second)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("unknown id creates a session", func(t *testing.T) {
		r := NewRegistry(nil)

		session, created := r.Resolve("new-id", domain.TransportSSE)
		assert.True(t, created)
		assert.Equal(t, "new-id", session.ID)
		assert.Equal(t, domain.TransportSSE, session.Kind)
		assert.False(t, session.Closed())
	})

	t.Run("closed id gets a fresh session", func(t *testing.T) {
		r := NewRegistry(nil)

		first, _ := r.Resolve("abc", domain.TransportHTTP)
		r.Close("abc")
		assert.True(t, first.Closed())

		second, created := r.Resolve("abc", domain.TransportHTTP)
		assert.True(t, created)
		assert.NotSame(t, first, second)
	})
}

func TestRegistry_Close(t *testing.T) {
	t.Run("removes the session", func(t *testing.T) {
		r := NewRegistry(nil)
		r.Resolve("abc", domain.TransportHTTP)

		r.Close("abc")
		assert.Nil(t, r.Get("abc"))
		assert.Zero(t, r.Len())
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		r := NewRegistry(nil)
		r.Close("never-registered")
		assert.Zero(t, r.Len())
	})

	t.Run("concurrent closes remove exactly once", func(t *testing.T) {
		r := NewRegistry(nil)
		session, _ := r.Resolve("abc", domain.TransportSSE)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Close("abc")
			}()
		}
		wg.Wait()

		assert.True(t, session.Closed())
		assert.Zero(t, r.Len())
	})
}
