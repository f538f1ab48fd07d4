package reporter

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/amosWeiskopf/seotrend/pkg/storage"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

const dateLayout = "2006-01-02 15:04:05 MST"

func writeMarkdownSummary(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("SEO Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + s.BaseURL + "`"},
			{"Snapshot", "`" + s.SnapshotID + "`"},
			{"Crawled", s.CrawledAt.Format(dateLayout)},
			{"Duration", strconv.FormatInt(s.DurationMs, 10) + " ms"},
			{"Snapshots recorded", strconv.Itoa(s.Snapshots)},
		},
	})
	md.PlainText("")

	t := s.Totals
	md.H2("Totals")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages", strconv.Itoa(t.Pages)},
			{"Words", strconv.Itoa(t.Words)},
			{"Issues", strconv.Itoa(t.Issues)},
			{"Average response time", strconv.FormatInt(t.AvgResponseMs, 10) + " ms"},
			{"Fastest response", strconv.FormatInt(t.MinResponseMs, 10) + " ms"},
			{"Slowest response", strconv.FormatInt(t.MaxResponseMs, 10) + " ms"},
		},
	})
	md.PlainText("")

	if d := s.Delta; d != nil {
		md.H2("Changes since previous crawl")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Previous", "Latest", "Change"},
			Rows: [][]string{
				{"Pages", strconv.Itoa(d.Previous.Pages), strconv.Itoa(d.Latest.Pages), storage.FormatSigned(int64(d.Pages))},
				{"Words", strconv.Itoa(d.Previous.Words), strconv.Itoa(d.Latest.Words), storage.FormatSigned(int64(d.Words))},
				{"Issues", strconv.Itoa(d.Previous.Issues), strconv.Itoa(d.Latest.Issues), storage.FormatSigned(int64(d.Issues))},
				{"Average response time (ms)", strconv.FormatInt(d.Previous.AvgResponseMs, 10),
					strconv.FormatInt(d.Latest.AvgResponseMs, 10), storage.FormatSigned(d.AvgResponseMs)},
			},
		})
		md.PlainText("")
	} else {
		md.Note("First crawl of this site. Changes are reported from the next crawl on.")
		md.PlainText("")
		writeMarkdownPages(md, s.Pages)
	}

	return md.Build()
}

func writeMarkdownPages(md *markdown.Markdown, pages []PageDetail) {
	if len(pages) == 0 {
		return
	}
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{
			p.URL,
			utils.TruncateText(p.Title, descriptionWidth),
			strconv.FormatInt(p.ResponseTimeMs, 10) + " ms",
			strconv.Itoa(p.IncomingLinks),
			joinTags(p.Issues, "none"),
		})
	}
	md.H2("Pages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Title", "Response", "Incoming links", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeMarkdownInconsistencies(w io.Writer, rep Inconsistencies) error {
	md := markdown.NewMarkdown(w)

	md.H1("Data Inconsistencies")
	md.PlainText("")
	md.PlainTextf("Site `%s`, snapshot `%s` crawled %s.", rep.BaseURL, rep.SnapshotID, rep.CrawledAt.Format(dateLayout))
	md.PlainText("")

	if len(rep.Pages) == 0 {
		md.Tip("No inconsistencies found.")
		return md.Build()
	}

	rows := make([][]string, 0, len(rep.Pages))
	for _, p := range rep.Pages {
		tags := make([]string, len(p.Issues))
		for i, t := range p.Issues {
			tags[i] = "`" + string(t) + "`"
		}
		rows = append(rows, []string{p.URL, strings.Join(tags, ", ")})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Issues"},
		Rows:   rows,
	})
	md.PlainText("")

	return md.Build()
}
