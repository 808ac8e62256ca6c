package domain

import (
	"strings"
	"time"
)

// MaxTitleLength is the longest title the store accepts.
// Longer titles are truncated before persistence.
const MaxTitleLength = 255

// Source identifies the provider a document was extracted from.
type Source string

// Known documentation sources.
const (
	// SourceMSLearn is Microsoft Learn documentation pages.
	SourceMSLearn Source = "microsoft-learn"

	// SourceGitHub is files hosted in GitHub repositories.
	SourceGitHub Source = "github"
)

// String returns the string representation.
func (s Source) String() string {
	return string(s)
}

// Well-known metadata keys shared by all extraction variants.
// Provider-specific extractors may add further keys.
const (
	// MetaSource is the Source that produced the document.
	MetaSource = "source"

	// MetaURL is the original resource URL. It is the document's
	// business identity: at most one document exists per URL.
	MetaURL = "url"

	// MetaExtractedAt is the RFC 3339 timestamp of extraction.
	MetaExtractedAt = "extractedAt"

	// MetaWordCount is the whitespace-delimited token count of Content.
	MetaWordCount = "wordCount"

	// MetaContentLength is the character count of Content.
	MetaContentLength = "contentLength"

	// MetaDomain is the host portion of the source URL.
	MetaDomain = "domain"
)

// Document represents a stored documentation record.
// It is the canonical representation after extraction and upsert.
type Document struct {
	// ID is the store-assigned identifier.
	ID string

	// Title is the human-readable title, at most MaxTitleLength chars.
	Title string

	// Content is the full normalised text content.
	Content string

	// Metadata contains the well-known Meta* keys plus any
	// provider-specific fields.
	Metadata map[string]any

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last replaced.
	UpdatedAt time.Time
}

// URL returns the document's identity URL from metadata, or "".
func (d *Document) URL() string {
	if d.Metadata == nil {
		return ""
	}
	u, _ := d.Metadata[MetaURL].(string)
	return u
}

// Extraction is the transient result of extracting a remote resource.
// It is never persisted directly; it is the input to an upsert.
type Extraction struct {
	// Title is the resolved document title.
	Title string

	// Content is the normalised text content.
	Content string

	// Metadata carries the Meta* keys plus provider-specific fields.
	Metadata map[string]any
}

// NewExtraction builds an Extraction with the shared metadata stamped.
func NewExtraction(source Source, url, domain, title, content string, extractedAt time.Time) *Extraction {
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength]
	}
	return &Extraction{
		Title:   title,
		Content: content,
		Metadata: map[string]any{
			MetaSource:        source.String(),
			MetaURL:           url,
			MetaDomain:        domain,
			MetaExtractedAt:   extractedAt.UTC().Format(time.RFC3339),
			MetaWordCount:     len(strings.Fields(content)),
			MetaContentLength: len(content),
		},
	}
}

