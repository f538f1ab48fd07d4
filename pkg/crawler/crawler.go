package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/extractor"
	"github.com/amosWeiskopf/seotrend/pkg/fetcher"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

// Crawler walks a single site one page at a time.
// It owns the frontier and the page set until Crawl returns.
type Crawler struct {
	fetcher    fetcher.Fetcher
	extractor  *extractor.Extractor
	userAgent  string
	delay      time.Duration
	useSitemap bool
	maxPages   int
	logger     *slog.Logger
}

var _ Engine = (*Crawler)(nil)

// New creates a Crawler that fetches through f
func New(f fetcher.Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:    f,
		extractor:  extractor.New(extractor.TextModeBody),
		userAgent:  DefaultUserAgent,
		delay:      DefaultDelay,
		useSitemap: true,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseBaseURL validates rawURL and returns it normalized
func ParseBaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) URL", ErrInvalidBaseURL, rawURL)
	}
	return utils.NormalizeURL(rawURL), nil
}

// Crawl checks robots.txt, loads the sitemap when enabled, then fetches every
// internal page reachable from baseURL exactly once. Any failure aborts the
// whole crawl and no partial result is returned.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (*models.CrawlResult, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	if err := c.checkPermission(ctx, base); err != nil {
		return nil, err
	}

	var sitemap map[string]bool
	if c.useSitemap {
		if sitemap, err = c.loadSitemap(ctx, base); err != nil {
			return nil, err
		}
		c.logger.Info("sitemap loaded", "base", base, "urls", len(sitemap))
	}

	pace := newPacer(c.delay)

	frontier := map[string]struct{}{base: {}}
	results := make(map[string]models.Page)

	for len(frontier) > 0 {
		if c.maxPages > 0 && len(results) >= c.maxPages {
			return nil, fmt.Errorf("%w: %d pages fetched, %d still pending", ErrPageLimit, len(results), len(frontier))
		}

		next := pick(frontier)
		if err := pace.wait(ctx); err != nil {
			return nil, err
		}

		page, err := c.fetchPage(ctx, next, base)
		pace.done()
		if err != nil {
			return nil, err
		}
		page.InSitemap = sitemap[page.URL]
		results[page.URL] = page

		for _, link := range page.Links {
			frontier[utils.ResolveLink(base, link)] = struct{}{}
		}
		for u := range frontier {
			if _, done := results[u]; done {
				delete(frontier, u)
			}
		}

		c.logger.Info("crawled page",
			"url", page.URL,
			"response_time_ms", page.ResponseTimeMs,
			"crawled", len(results),
			"pending", len(frontier),
		)
	}

	pages := make([]models.Page, 0, len(results))
	for _, p := range results {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })

	return &models.CrawlResult{
		BaseURL:        base,
		Pages:          pages,
		StartedAt:      started,
		Duration:       time.Since(started),
		SitemapChecked: c.useSitemap,
	}, nil
}

// fetchPage fetches and extracts one page, timing the request
func (c *Crawler) fetchPage(ctx context.Context, pageURL, base string) (models.Page, error) {
	start := time.Now()
	resp, err := c.fetcher.Fetch(ctx, pageURL, c.headers())
	elapsed := time.Since(start)
	if err != nil {
		return models.Page{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if !resp.OK() {
		c.logger.Error("non-success status", "url", pageURL, "status", resp.StatusCode)
		return models.Page{}, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	page, err := c.extractor.Extract(resp.Body, pageURL, base)
	if err != nil {
		return models.Page{}, err
	}
	page.ResponseTimeMs = elapsed.Milliseconds()
	return page, nil
}

func (c *Crawler) headers() map[string]string {
	return map[string]string{
		"User-Agent":      c.userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
}

// pick returns an arbitrary member of the frontier
func pick(frontier map[string]struct{}) string {
	for u := range frontier {
		return u
	}
	return ""
}
