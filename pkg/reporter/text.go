package reporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/storage"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

// descriptionWidth bounds descriptions in the per-page listing
const descriptionWidth = 80

func writeTextSummary(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Site: %s\n", s.BaseURL)
	fmt.Fprintf(bw, "Snapshot: %s (%s, %d recorded)\n", s.SnapshotID, humanize.Time(s.CrawledAt), s.Snapshots)
	fmt.Fprintf(bw, "Scraping done in %ds\n", s.DurationMs/1000)

	if d := s.Delta; d != nil {
		fmt.Fprintf(bw, "New words: %s\n", storage.FormatSigned(int64(d.Words)))
		fmt.Fprintf(bw, "New pages: %s\n", storage.FormatSigned(int64(d.Pages)))
		fmt.Fprintf(bw, "New issues: %s\n", storage.FormatSigned(int64(d.Issues)))
		fmt.Fprintf(bw, "New response time: %sms\n", storage.FormatSigned(d.AvgResponseMs))
	} else {
		for _, p := range s.Pages {
			writeTextPage(bw, p)
		}
		t := s.Totals
		fmt.Fprintf(bw, "Total pages: %s\n", humanize.Comma(int64(t.Pages)))
		fmt.Fprintf(bw, "Total words: %s\n", humanize.Comma(int64(t.Words)))
		fmt.Fprintf(bw, "Total issues: %s\n", humanize.Comma(int64(t.Issues)))
		fmt.Fprintf(bw, "Average response time: %dms (min %dms, max %dms)\n",
			t.AvgResponseMs, t.MinResponseMs, t.MaxResponseMs)
	}

	return bw.Flush()
}

func writeTextPage(w io.Writer, p PageDetail) {
	fmt.Fprintf(w, "Page: %s\n", p.URL)
	fmt.Fprintf(w, "  Title: %s\n", p.Title)
	fmt.Fprintf(w, "  Description: %s\n", utils.TruncateText(p.Description, descriptionWidth))
	fmt.Fprintf(w, "  Response time: %dms\n", p.ResponseTimeMs)
	fmt.Fprintf(w, "  Incoming links: %d\n", p.IncomingLinks)
	fmt.Fprintf(w, "  Issues: %s\n", joinTags(p.Issues, "none"))
}

func joinTags(tags []models.IssueTag, empty string) string {
	if len(tags) == 0 {
		return empty
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return strings.Join(out, ", ")
}

func writeTextInconsistencies(w io.Writer, rep Inconsistencies) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Site: %s\n", rep.BaseURL)
	fmt.Fprintf(bw, "Snapshot: %s (%s)\n", rep.SnapshotID, humanize.Time(rep.CrawledAt))

	if len(rep.Pages) == 0 {
		fmt.Fprintln(bw, "No inconsistencies found.")
		return bw.Flush()
	}

	fmt.Fprintf(bw, "%s with inconsistencies:\n", pluralPages(len(rep.Pages)))
	for _, p := range rep.Pages {
		fmt.Fprintf(bw, "  %s\n    %s\n", p.URL, joinTags(p.Issues, ""))
	}
	return bw.Flush()
}

func pluralPages(n int) string {
	if n == 1 {
		return "1 page"
	}
	return humanize.Comma(int64(n)) + " pages"
}
