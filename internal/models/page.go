package models

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page represents a crawled web page
type Page struct {
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Links          []string   `json:"links"`
	InSitemap      bool       `json:"in_sitemap"`
	Content        string     `json:"content"`
	ResponseTimeMs int64      `json:"response_time_ms"`
	IncomingLinks  []string   `json:"incoming_links"`
	Issues         []IssueTag `json:"issues"`

	// DOM is the parsed document kept for issue detection only.
	DOM *goquery.Document `json:"-"`
}

// CrawlResult contains the pages of one completed crawl before annotation
type CrawlResult struct {
	BaseURL        string        `json:"base_url"`
	Pages          []Page        `json:"pages"`
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	SitemapChecked bool          `json:"sitemap_checked"`
}

// Snapshot is one completed, annotated crawl of a site
type Snapshot struct {
	ID         string    `json:"id"`
	CrawledAt  time.Time `json:"crawled_at"`
	DurationMs int64     `json:"duration_ms"`
	Pages      []Page    `json:"pages"`
}

// SiteHistory holds every snapshot taken of one base URL, oldest first
type SiteHistory struct {
	BaseURL   string     `json:"base_url"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Latest returns the most recent snapshot, if any
func (h *SiteHistory) Latest() (Snapshot, bool) {
	if len(h.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return h.Snapshots[len(h.Snapshots)-1], true
}
