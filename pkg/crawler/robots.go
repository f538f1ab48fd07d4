package crawler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/temoto/robotstxt"
)

// checkPermission fetches robots.txt and refuses the crawl when the file is
// missing or when the wildcard group or our own group disallows the site root.
func (c *Crawler) checkPermission(ctx context.Context, base string) error {
	robotsURL := base + "/robots.txt"
	resp, err := c.fetcher.Fetch(ctx, robotsURL, c.headers())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: no robots.txt at %s", ErrPermissionDenied, robotsURL)
	}

	robots, err := robotstxt.FromStatusAndString(resp.StatusCode, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: unreadable robots.txt: %w", ErrPermissionDenied, err)
	}

	if !robots.FindGroup("*").Test("/") {
		return fmt.Errorf("%w: robots.txt disallows all crawlers", ErrPermissionDenied)
	}
	if !robots.TestAgent("/", c.userAgent) {
		return fmt.Errorf("%w: robots.txt disallows %s", ErrPermissionDenied, c.userAgent)
	}

	c.logger.Debug("robots.txt allows crawling", "url", robotsURL, "status", resp.StatusCode)
	return nil
}
