// Package mslearn extracts documentation pages from Microsoft Learn.
package mslearn

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	// DefaultTimeout bounds the outbound page fetch.
	DefaultTimeout = 30 * time.Second

	// MinContentLength is the smallest text a content locator must match
	// to be accepted. Locators are tried in order; the first one whose
	// collapsed text exceeds this wins.
	MinContentLength = 100

	// MaxHeaders caps the best-effort section header list.
	MaxHeaders = 10

	// FallbackTitle is used when every title locator fails.
	FallbackTitle = "Microsoft Learn Document"
)

// contentSelectors are tried in order. The cascade is length-gated, not
// specificity-gated: the first selector matching enough text wins.
var contentSelectors = []string{
	`[data-bi-name="content"]`,
	"main article",
	"main",
	"article",
	".content",
	"#main-content",
}

// Extractor is the Microsoft Learn documentation-site variant.
type Extractor struct {
	client *http.Client
}

// New creates the extractor with a bounded fetch timeout.
func New() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// Source identifies this variant.
func (e *Extractor) Source() domain.Source {
	return domain.SourceMSLearn
}

// Matches claims Microsoft Learn and legacy docs.microsoft.com URLs.
func (e *Extractor) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "learn.microsoft.com" || host == "docs.microsoft.com"
}

// Extract fetches the page and applies the locator cascades.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.Extraction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", "documentation-mcp/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}

	return e.parse(doc, rawURL)
}

// parse builds an Extraction from a parsed page.
func (e *Extractor) parse(doc *goquery.Document, rawURL string) (*domain.Extraction, error) {
	content := findContent(doc)
	if content == "" {
		return nil, fmt.Errorf("%w: no content locator matched at least %d characters", domain.ErrInsufficientContent, MinContentLength)
	}

	extraction := domain.NewExtraction(
		domain.SourceMSLearn,
		rawURL,
		hostOf(rawURL),
		findTitle(doc),
		content,
		time.Now(),
	)

	// Best-effort metadata: absent rather than fatal.
	if v := metaContent(doc, "description"); v != "" {
		extraction.Metadata["description"] = v
	}
	if v := metaContent(doc, "keywords"); v != "" {
		extraction.Metadata["keywords"] = v
	}
	if v := metaContent(doc, "author"); v != "" {
		extraction.Metadata["author"] = v
	}
	if headers := findHeaders(doc); len(headers) > 0 {
		extraction.Metadata["headers"] = headers
	}

	return extraction, nil
}

// findContent runs the content locator cascade.
func findContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := collapse(sel.Text())
		if len(text) > MinContentLength {
			return text
		}
	}
	return ""
}

// findTitle runs the title locator cascade: h1, then the title tag,
// then og:title, then the fixed placeholder.
func findTitle(doc *goquery.Document) string {
	if t := collapse(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t = collapse(t); t != "" {
			return t
		}
	}
	return FallbackTitle
}

// findHeaders collects up to MaxHeaders top-level section headers.
func findHeaders(doc *goquery.Document) []string {
	var headers []string
	doc.Find("h2").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := collapse(sel.Text()); text != "" {
			headers = append(headers, text)
		}
		return len(headers) < MaxHeaders
	})
	return headers
}

// metaContent returns the content attribute of a named meta tag.
func metaContent(doc *goquery.Document, name string) string {
	v, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return collapse(v)
}

// collapse reduces all whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
