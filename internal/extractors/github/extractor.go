// Package github extracts files hosted in GitHub repositories.
//
// Human-facing blob URLs are rewritten to their raw-content form before
// fetching. URLs pointing at repositories or directories are rejected
// without a fetch.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	// DefaultTimeout bounds the outbound raw-content fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultRawBaseURL serves raw file content.
	DefaultRawBaseURL = "https://raw.githubusercontent.com"
)

// fileRef is a parsed GitHub file location.
type fileRef struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// Extractor is the GitHub code-hosting variant.
type Extractor struct {
	client     *http.Client
	rawBaseURL string
}

// New creates the extractor. A non-empty token authenticates raw
// fetches, which raises rate limits and reaches private repositories.
func New(token string) *Extractor {
	client := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = oauth2.NewClient(context.Background(), ts)
		client.Timeout = DefaultTimeout
	}
	return &Extractor{
		client:     client,
		rawBaseURL: DefaultRawBaseURL,
	}
}

// Source identifies this variant.
func (e *Extractor) Source() domain.Source {
	return domain.SourceGitHub
}

// Matches claims github.com and raw.githubusercontent.com URLs.
func (e *Extractor) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "github.com" || host == "www.github.com" || host == "raw.githubusercontent.com"
}

// Extract fetches the file's raw content, retrying exactly once against
// the alternate of main/master when the first branch is not found.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.Extraction, error) {
	ref, err := parseFileURL(rawURL)
	if err != nil {
		return nil, err
	}

	content, branch, err := e.fetchWithFallback(ctx, ref)
	if err != nil {
		return nil, err
	}
	ref.Branch = branch

	filename := path.Base(ref.Path)
	title := strings.TrimSuffix(filename, path.Ext(filename))

	extraction := domain.NewExtraction(
		domain.SourceGitHub,
		rawURL,
		"github.com",
		title,
		content,
		time.Now(),
	)
	extraction.Metadata["owner"] = ref.Owner
	extraction.Metadata["repo"] = ref.Repo
	extraction.Metadata["branch"] = ref.Branch
	extraction.Metadata["path"] = ref.Path
	extraction.Metadata["rawUrl"] = e.rawURL(ref)

	return extraction, nil
}

// fetchWithFallback fetches the raw file, retrying the alternate
// well-known branch once on a not-found response. Only main and master
// have alternates; any other branch fails immediately.
func (e *Extractor) fetchWithFallback(ctx context.Context, ref fileRef) (string, string, error) {
	content, err := e.fetch(ctx, ref)
	if err == nil {
		return content, ref.Branch, nil
	}

	var ferr *domain.FetchError
	if !errors.As(err, &ferr) || ferr.StatusCode != http.StatusNotFound {
		return "", "", err
	}

	alternate := alternateBranch(ref.Branch)
	if alternate == "" {
		return "", "", err
	}

	retry := ref
	retry.Branch = alternate
	content, retryErr := e.fetch(ctx, retry)
	if retryErr != nil {
		// Report the original failure; the fallback was best-effort.
		return "", "", err
	}
	return content, alternate, nil
}

// fetch performs one raw-content request.
func (e *Extractor) fetch(ctx context.Context, ref fileRef) (string, error) {
	endpoint := e.rawURL(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &domain.FetchError{URL: endpoint, Err: err}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", &domain.FetchError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.FetchError{URL: endpoint, Err: err}
	}
	return string(data), nil
}

func (e *Extractor) rawURL(ref fileRef) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", e.rawBaseURL, ref.Owner, ref.Repo, ref.Branch, ref.Path)
}

// alternateBranch returns the other well-known default branch, or "".
func alternateBranch(branch string) string {
	switch branch {
	case "main":
		return "master"
	case "master":
		return "main"
	default:
		return ""
	}
}

// parseFileURL resolves a GitHub URL to a file reference.
// Repository roots, tree (directory) URLs and anything else without a
// file path fail fast with domain.ErrUnsupportedTarget.
func parseFileURL(rawURL string) (fileRef, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fileRef{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedTarget, rawURL)
	}

	segments := splitPath(u.Path)
	host := strings.ToLower(u.Hostname())

	if host == "raw.githubusercontent.com" {
		// raw.githubusercontent.com/{owner}/{repo}/{branch}/{path...}
		if len(segments) < 4 {
			return fileRef{}, fmt.Errorf("%w: %s points at no file", domain.ErrUnsupportedTarget, rawURL)
		}
		return fileRef{
			Owner:  segments[0],
			Repo:   segments[1],
			Branch: segments[2],
			Path:   strings.Join(segments[3:], "/"),
		}, nil
	}

	// github.com/{owner}/{repo}/blob/{branch}/{path...}
	if len(segments) >= 5 && segments[2] == "blob" {
		return fileRef{
			Owner:  segments[0],
			Repo:   segments[1],
			Branch: segments[3],
			Path:   strings.Join(segments[4:], "/"),
		}, nil
	}

	return fileRef{}, fmt.Errorf("%w: %s does not point at a file", domain.ErrUnsupportedTarget, rawURL)
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
