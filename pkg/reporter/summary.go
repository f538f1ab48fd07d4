package reporter

import (
	"fmt"
	"time"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/storage"
)

// Summary describes the latest snapshot of a site. Delta is set once the
// site has at least two snapshots; until then Pages details every page.
type Summary struct {
	BaseURL    string         `json:"base_url" yaml:"base_url"`
	SnapshotID string         `json:"snapshot_id" yaml:"snapshot_id"`
	CrawledAt  time.Time      `json:"crawled_at" yaml:"crawled_at"`
	DurationMs int64          `json:"duration_ms" yaml:"duration_ms"`
	Snapshots  int            `json:"snapshots" yaml:"snapshots"`
	Pages      []PageDetail   `json:"pages,omitempty" yaml:"pages,omitempty"`
	Totals     storage.Stats  `json:"totals" yaml:"totals"`
	Delta      *storage.Delta `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// PageDetail is the first-crawl view of one page
type PageDetail struct {
	URL            string            `json:"url" yaml:"url"`
	Title          string            `json:"title" yaml:"title"`
	Description    string            `json:"description" yaml:"description"`
	ResponseTimeMs int64             `json:"response_time_ms" yaml:"response_time_ms"`
	IncomingLinks  int               `json:"incoming_links" yaml:"incoming_links"`
	Issues         []models.IssueTag `json:"issues" yaml:"issues"`
}

// PageIssues lists the consistency tags of one page
type PageIssues struct {
	URL    string            `json:"url" yaml:"url"`
	Issues []models.IssueTag `json:"issues" yaml:"issues"`
}

// Inconsistencies lists the pages of the latest snapshot that carry a data
// consistency issue or are missing from the sitemap.
type Inconsistencies struct {
	BaseURL    string       `json:"base_url" yaml:"base_url"`
	SnapshotID string       `json:"snapshot_id" yaml:"snapshot_id"`
	CrawledAt  time.Time    `json:"crawled_at" yaml:"crawled_at"`
	Pages      []PageIssues `json:"pages" yaml:"pages"`
}

// NewSummary builds the summary of history's latest snapshot
func NewSummary(history models.SiteHistory) (Summary, error) {
	latest, ok := history.Latest()
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", storage.ErrHistoryNotFound, history.BaseURL)
	}

	s := Summary{
		BaseURL:    history.BaseURL,
		SnapshotID: latest.ID,
		CrawledAt:  latest.CrawledAt,
		DurationMs: latest.DurationMs,
		Snapshots:  len(history.Snapshots),
		Totals:     storage.Totals(latest),
	}
	if delta, err := storage.Diff(history); err == nil {
		s.Delta = &delta
		return s, nil
	}

	s.Pages = make([]PageDetail, 0, len(latest.Pages))
	for _, p := range latest.Pages {
		s.Pages = append(s.Pages, PageDetail{
			URL:            p.URL,
			Title:          p.Title,
			Description:    p.Description,
			ResponseTimeMs: p.ResponseTimeMs,
			IncomingLinks:  len(p.IncomingLinks),
			Issues:         p.Issues,
		})
	}
	return s, nil
}

// NewInconsistencies collects the consistency findings of history's latest
// snapshot. Only consistency tags are kept for each page.
func NewInconsistencies(history models.SiteHistory) (Inconsistencies, error) {
	latest, ok := history.Latest()
	if !ok {
		return Inconsistencies{}, fmt.Errorf("%w: %s", storage.ErrHistoryNotFound, history.BaseURL)
	}

	out := Inconsistencies{
		BaseURL:    history.BaseURL,
		SnapshotID: latest.ID,
		CrawledAt:  latest.CrawledAt,
		Pages:      []PageIssues{},
	}
	for _, p := range latest.Pages {
		var tags []models.IssueTag
		for _, t := range p.Issues {
			if t.IsConsistencyIssue() {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			out.Pages = append(out.Pages, PageIssues{URL: p.URL, Issues: tags})
		}
	}
	return out, nil
}
