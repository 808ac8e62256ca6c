package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewExtraction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stamps shared metadata", func(t *testing.T) {
		e := NewExtraction(SourceMSLearn, "https://learn.microsoft.com/x", "learn.microsoft.com",
			"Title", "one two  three", now)

		assert.Equal(t, "microsoft-learn", e.Metadata[MetaSource])
		assert.Equal(t, "https://learn.microsoft.com/x", e.Metadata[MetaURL])
		assert.Equal(t, "learn.microsoft.com", e.Metadata[MetaDomain])
		assert.Equal(t, 3, e.Metadata[MetaWordCount])
		assert.Equal(t, len("one two  three"), e.Metadata[MetaContentLength])
		assert.Equal(t, "2025-06-01T12:00:00Z", e.Metadata[MetaExtractedAt])
	})

	t.Run("truncates overlong titles", func(t *testing.T) {
		long := strings.Repeat("a", MaxTitleLength+50)
		e := NewExtraction(SourceGitHub, "u", "github.com", long, "content", now)
		assert.Len(t, e.Title, MaxTitleLength)
	})

	t.Run("empty content counts zero words", func(t *testing.T) {
		e := NewExtraction(SourceGitHub, "u", "github.com", "t", "", now)
		assert.Equal(t, 0, e.Metadata[MetaWordCount])
		assert.Equal(t, 0, e.Metadata[MetaContentLength])
	})
}

func TestDocument_URL(t *testing.T) {
	t.Run("returns metadata url", func(t *testing.T) {
		doc := Document{Metadata: map[string]any{MetaURL: "https://example.com"}}
		assert.Equal(t, "https://example.com", doc.URL())
	})

	t.Run("nil metadata yields empty", func(t *testing.T) {
		doc := Document{}
		assert.Empty(t, doc.URL())
	})

	t.Run("non-string url yields empty", func(t *testing.T) {
		doc := Document{Metadata: map[string]any{MetaURL: 42}}
		assert.Empty(t, doc.URL())
	})
}

func TestTransportKind_IsValid(t *testing.T) {
	assert.True(t, TransportStdio.IsValid())
	assert.True(t, TransportHTTP.IsValid())
	assert.True(t, TransportSSE.IsValid())
	assert.False(t, TransportKind("carrier-pigeon").IsValid())
}
