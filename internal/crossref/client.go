package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is 2 requests per second, the polite-pool ceiling.
	DefaultRateLimit = 2.0

	// DefaultSearchRows is how many candidates a search returns at most.
	DefaultSearchRows = 5

	// DefaultUserAgent identifies this tool to CrossRef.
	DefaultUserAgent = "ScopusDBBuilder/1.0"

	maxRetries     = 3
	defaultBackoff = 2 * time.Second
)

// Client is a rate-limited HTTP client for the CrossRef REST API.
// Registering a contact email routes requests through CrossRef's polite
// pool, which has more generous service levels than the anonymous pool.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	mailto     string
	userAgent  string
	baseURL    string
	backoff    time.Duration
	cache      *cache

	statsMu sync.Mutex
	stats   Stats
}

// Stats counts client activity over the lifetime of a run.
type Stats struct {
	Requests    int `json:"requests"`
	CacheHits   int `json:"cache_hits"`
	NotFound    int `json:"not_found"`
	RateLimited int `json:"rate_limited"`
	Retries     int `json:"retries"`
	Failed      int `json:"failed"`
}

// StructuredFilter narrows a structured journal search.
type StructuredFilter struct {
	Year   int
	Volume string
	Pages  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent overrides the User-Agent product string.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithBackoff sets the base retry backoff interval.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a CrossRef client registered in the polite pool
// under the given contact email. An empty mailto falls back to the
// CROSSREF_EMAIL environment variable.
func NewClient(mailto string, opts ...ClientOption) (*Client, error) {
	if mailto == "" {
		mailto = os.Getenv("CROSSREF_EMAIL")
	}
	if !validEmail(mailto) {
		return nil, fmt.Errorf("invalid polite-pool email %q", mailto)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		mailto:     mailto,
		userAgent:  DefaultUserAgent,
		baseURL:    BaseURL,
		backoff:    defaultBackoff,
		cache:      newCache(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// Stats returns a snapshot of the client's activity counters.
func (c *Client) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// CacheSize returns the number of cached responses.
func (c *Client) CacheSize() int {
	return c.cache.size()
}

func (c *Client) count(f func(*Stats)) {
	c.statsMu.Lock()
	f(&c.stats)
	c.statsMu.Unlock()
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// getWorks performs a cached, rate-limited GET against a /works
// endpoint. Transient failures (network errors, 5xx, 429, malformed
// bodies) are retried with exponential backoff and, once retries are
// exhausted, reported as an empty result so a single flaky lookup
// cannot abort a batch. Authentication failures propagate immediately.
func (c *Client) getWorks(ctx context.Context, path string, params url.Values) ([]Work, error) {
	key := path + "?" + params.Encode()
	if works, ok := c.cache.get(key); ok {
		c.count(func(s *Stats) { s.CacheHits++ })
		return works, nil
	}

	params.Set("mailto", c.mailto)
	fullURL := c.baseURL + path + "?" + params.Encode()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.count(func(s *Stats) { s.Retries++ })
			if err := sleepCtx(ctx, c.backoff*(1<<(attempt-1))); err != nil {
				return nil, err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", fmt.Sprintf("%s (mailto:%s)", c.userAgent, c.mailto))

		c.count(func(s *Stats) { s.Requests++ })
		resp, err := c.httpClient.Do(req)
		if err != nil {
			continue
		}

		works, retry, err := c.handleResponse(resp, key)
		if err != nil {
			if retry {
				continue
			}
			return nil, err
		}
		return works, nil
	}

	c.count(func(s *Stats) { s.Failed++ })
	return nil, nil
}

// handleResponse classifies a single HTTP response. retry=true means
// the caller may try again; a non-retryable error aborts the lookup.
func (c *Client) handleResponse(resp *http.Response, cacheKey string) (works []Work, retry bool, err error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return nil, false, fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	case resp.StatusCode == 429:
		c.count(func(s *Stats) { s.RateLimited++ })
		return nil, true, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == 404:
		c.count(func(s *Stats) { s.NotFound++ })
		c.cache.put(cacheKey, nil)
		return nil, false, nil
	case resp.StatusCode >= 500:
		return nil, true, &APIError{StatusCode: resp.StatusCode, Message: "server error"}
	case resp.StatusCode >= 400:
		// Malformed query or similar; not worth retrying and not fatal.
		c.count(func(s *Stats) { s.NotFound++ })
		return nil, false, nil
	}

	var msg worksMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	c.cache.put(cacheKey, msg.Message.Items)
	return msg.Message.Items, false, nil
}

// LookupByExternalID resolves a work through a CrossRef ID filter such
// as "pmid". An unknown ID is not an error; it returns nil.
func (c *Client) LookupByExternalID(ctx context.Context, idType, value string) (*Work, error) {
	if value == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("filter", idType+":"+value)
	params.Set("rows", "1")

	works, err := c.getWorks(ctx, "/works", params)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		return nil, nil
	}
	w := works[0]
	if w.DOI == "" {
		return nil, nil
	}
	return &w, nil
}

// SearchStructured searches by container title with optional year and
// page filters. When a first-page hint is given, a candidate whose page
// field matches is promoted to the front of the result list.
func (c *Client) SearchStructured(ctx context.Context, journal string, f StructuredFilter) ([]Work, error) {
	if journal == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query.container-title", journal)
	params.Set("rows", fmt.Sprintf("%d", DefaultSearchRows))
	if f.Year > 0 {
		params.Set("filter", fmt.Sprintf("from-pub-date:%d-01-01,until-pub-date:%d-12-31", f.Year, f.Year))
	}

	works, err := c.getWorks(ctx, "/works", params)
	if err != nil {
		return nil, err
	}

	if first := firstPage(f.Pages); first != "" {
		for i, w := range works {
			if i > 0 && firstPage(w.Page) == first {
				promoted := append([]Work{w}, append(append([]Work{}, works[:i]...), works[i+1:]...)...)
				works = promoted
				break
			}
		}
	}
	return works, nil
}

// SearchFuzzy searches by title and author text relevance, optionally
// constrained to a publication year.
func (c *Client) SearchFuzzy(ctx context.Context, title, author string, year, rows int) ([]Work, error) {
	if title == "" {
		return nil, nil
	}
	if rows <= 0 {
		rows = DefaultSearchRows
	}

	params := url.Values{}
	params.Set("query.title", title)
	if author != "" {
		params.Set("query.author", author)
	}
	if year > 0 {
		params.Set("filter", fmt.Sprintf("from-pub-date:%d-01-01,until-pub-date:%d-12-31", year, year))
	}
	params.Set("rows", fmt.Sprintf("%d", rows))

	return c.getWorks(ctx, "/works", params)
}

// firstPage returns the leading page number of a page expression like
// "123-130", or "" when there is none.
func firstPage(pages string) string {
	pages = strings.TrimSpace(pages)
	if pages == "" {
		return ""
	}
	if i := strings.IndexAny(pages, "-–"); i >= 0 {
		return strings.TrimSpace(pages[:i])
	}
	return pages
}
