package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// Fetcher retrieves the raw SKOS document for a topic. Implementations
// must honor the context deadline so that a stuck network call cannot
// stall crawl completion detection.
type Fetcher interface {
	// Fetch returns the raw JSON-LD document describing the topic.
	Fetch(ctx context.Context, id model.TopicID) ([]byte, error)
}

// Default HTTP fetcher settings.
const (
	// DefaultUserAgent identifies unbisgraph in HTTP requests.
	// A descriptive User-Agent lets the thesaurus operators identify
	// crawler traffic in their logs.
	DefaultUserAgent = "unbisgraph/1.0 (+https://github.com/unbisgraph/unbisgraph)"

	// DefaultMaxBodySize limits the response body size to read.
	// Topic documents are a few kilobytes; 5MB leaves generous headroom
	// while preventing memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// jsonDocumentSuffix is appended to a topic URL to request the
	// JSON-LD rendition of the page.
	jsonDocumentSuffix = ".json"
)

// HTTPFetcher retrieves topic documents over HTTP.
type HTTPFetcher struct {
	// client performs the requests. Callers may supply a client with a
	// custom transport; the per-request deadline comes from the context.
	client *http.Client

	// baseURL is the thesaurus URL template with a %s placeholder for
	// the topic identifier.
	baseURL string

	// userAgent is the User-Agent header to send.
	userAgent string

	// timeout is the per-fetch deadline applied when the incoming
	// context carries none.
	timeout time.Duration

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithBaseURL overrides the thesaurus URL template. Used by tests to
// point the fetcher at a local server.
func WithBaseURL(baseURL string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.baseURL = baseURL
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-fetch deadline.
func WithTimeout(d time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// NewHTTPFetcher creates an HTTPFetcher with the given client.
// A nil client uses http.DefaultClient.
func NewHTTPFetcher(client *http.Client, opts ...HTTPFetcherOption) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &HTTPFetcher{
		client:      client,
		baseURL:     model.BaseURL,
		userAgent:   DefaultUserAgent,
		timeout:     30 * time.Second,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the JSON-LD document for the topic. The request asks
// for application/ld+json; the thesaurus serves the JSON rendition at
// the topic URL with a .json suffix.
func (f *HTTPFetcher) Fetch(ctx context.Context, id model.TopicID) ([]byte, error) {
	url := fmt.Sprintf(f.baseURL, string(id)) + jsonDocumentSuffix
	return f.get(ctx, url, "application/ld+json")
}

// FetchPage retrieves an HTML page from the thesaurus site, such as the
// categories landing page used for seed discovery.
func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, "text/html")
}

// get performs one bounded HTTP request.
func (f *HTTPFetcher) get(ctx context.Context, url, accept string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok && f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnexpectedStatus, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return body, nil
}
