// Package searxng queries a SearXNG metasearch instance.
package searxng

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/H2Siting/internal/infrastructure/database/redis"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const userAgent = "Mozilla/5.0 (compatible; SearXNG-Client/1.0; +https://searxng.org)"

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Observer receives the outcome of each upstream search.
type Observer func(err error, elapsed time.Duration)

// Client calls GET {base}/search?q=..&format=json.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	observe    Observer
}

func NewClient(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithObserver returns c with o registered.
func (c *Client) WithObserver(o Observer) *Client {
	c.observe = o
	return c
}

func (c *Client) Search(ctx context.Context, query string) (results []Result, err error) {
	start := time.Now()
	defer func() {
		if c.observe != nil {
			c.observe(err, time.Since(start))
		}
	}()

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to build search request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "couldn't fetch results from SearXNG")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeSearchFailed, "couldn't fetch results from SearXNG").
			WithDetail(resp.Status)
	}

	var body struct {
		Results []Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to decode search response")
	}
	if body.Results == nil {
		body.Results = []Result{}
	}
	return body.Results, nil
}

// CachedSearcher memoizes results per query in Redis.
type CachedSearcher struct {
	next   Searcher
	cache  redis.Cache
	ttl    time.Duration
	logger logging.Logger
}

func NewCachedSearcher(next Searcher, cache redis.Cache, ttl time.Duration, logger logging.Logger) *CachedSearcher {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &CachedSearcher{next: next, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return "search:" + hex.EncodeToString(sum[:16])
}

// Search serves from the cache and falls through to the upstream on a cache
// failure.
func (s *CachedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	var results []Result
	err := s.cache.GetOrSet(ctx, cacheKey(query), &results, s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.next.Search(ctx, query)
	})
	if err == nil {
		return results, nil
	}
	if errors.IsCode(err, errors.ErrCodeSearchFailed) {
		return nil, err
	}
	s.logger.Warn("search cache unavailable", logging.Err(err))
	return s.next.Search(ctx, query)
}

//Personal.AI order the ending
