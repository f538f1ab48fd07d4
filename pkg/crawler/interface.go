package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/extractor"
)

// Engine defines the interface for web crawling operations
type Engine interface {
	// Crawl fetches every page reachable from baseURL and returns them unannotated
	Crawl(ctx context.Context, baseURL string) (*models.CrawlResult, error)
}

// Default crawl settings
const (
	DefaultUserAgent = "seotrend-lite"
	DefaultDelay     = 250 * time.Millisecond
)

// Option configures a Crawler
type Option func(*Crawler)

// WithUserAgent sets the User-Agent header sent with every request and
// the agent name matched against robots.txt groups.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithDelay sets the pause between two page fetches
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithSitemap toggles the sitemap.xml requirement
func WithSitemap(enabled bool) Option {
	return func(c *Crawler) {
		c.useSitemap = enabled
	}
}

// WithMaxPages aborts the crawl once more than n pages would be fetched. 0 disables the limit.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithTextMode selects the visible text extraction mode
func WithTextMode(mode extractor.TextMode) Option {
	return func(c *Crawler) {
		c.extractor = extractor.New(mode)
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}
