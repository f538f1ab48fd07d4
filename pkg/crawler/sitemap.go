package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

const (
	locExpr          = "//*[local-name()='loc']"
	sitemapIndexExpr = "/*[local-name()='sitemapindex']"
)

// loadSitemap returns the normalized set of URLs listed in {base}/sitemap.xml.
// A sitemap index is followed one level deep.
func (c *Crawler) loadSitemap(ctx context.Context, base string) (map[string]bool, error) {
	root, err := c.fetchSitemap(ctx, base+"/sitemap.xml")
	if err != nil {
		return nil, err
	}

	urls := make(map[string]bool)
	if xmlquery.FindOne(root, sitemapIndexExpr) == nil {
		collectLocs(root, urls)
		return urls, nil
	}

	for _, loc := range xmlquery.Find(root, locExpr) {
		child, err := c.fetchSitemap(ctx, strings.TrimSpace(loc.InnerText()))
		if err != nil {
			return nil, err
		}
		collectLocs(child, urls)
	}
	return urls, nil
}

func (c *Crawler) fetchSitemap(ctx context.Context, sitemapURL string) (*xmlquery.Node, error) {
	resp, err := c.fetcher.Fetch(ctx, sitemapURL, c.headers())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSitemapUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrSitemapUnavailable, sitemapURL, resp.StatusCode)
	}

	root, err := xmlquery.Parse(strings.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrSitemapUnavailable, sitemapURL, err)
	}
	return root, nil
}

func collectLocs(root *xmlquery.Node, urls map[string]bool) {
	for _, loc := range xmlquery.Find(root, locExpr) {
		if u := strings.TrimSpace(loc.InnerText()); u != "" {
			urls[utils.NormalizeURL(u)] = true
		}
	}
}
