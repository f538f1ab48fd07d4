package analyzer

import (
	"github.com/google/uuid"

	"github.com/amosWeiskopf/seotrend/internal/models"
)

// Annotate runs the post-crawl phase over a finished crawl: it computes the
// incoming links of every page, then the issues of every page, and returns
// the result as a new Snapshot. The crawl result is left untouched and the
// returned pages carry no DOM handle.
func Annotate(baseURL string, result *models.CrawlResult, detector *Detector) models.Snapshot {
	detector = detector.WithSitemapCheck(result.SitemapChecked)
	incoming := IncomingLinks(baseURL, result.Pages)

	pages := make([]models.Page, len(result.Pages))
	for i, page := range result.Pages {
		annotated := page
		annotated.Links = append([]string(nil), page.Links...)
		annotated.IncomingLinks = incoming[page.URL]
		annotated.Issues = detector.Detect(annotated, page.DOM)
		annotated.DOM = nil
		pages[i] = annotated
	}

	return models.Snapshot{
		ID:         uuid.NewString(),
		CrawledAt:  result.StartedAt.UTC(),
		DurationMs: result.Duration.Milliseconds(),
		Pages:      pages,
	}
}
