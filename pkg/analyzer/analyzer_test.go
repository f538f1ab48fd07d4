package analyzer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/seotrend/internal/models"
)

const completeHead = `
<meta property="og:title" content="t">
<meta property="og:type" content="website">
<meta property="og:image" content="https://example.com/i.png">
<meta property="og:url" content="https://example.com">`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultRules())
	require.NoError(t, err)
	return d
}

// cleanPage returns a page and document that raise no issue
func cleanPage(t *testing.T) (models.Page, *goquery.Document) {
	t.Helper()
	page := models.Page{
		URL:           "https://example.com/about",
		Title:         "About us",
		Description:   strings.Repeat("d", 120),
		Content:       "Some visible content",
		InSitemap:     true,
		IncomingLinks: []string{"https://example.com", "https://example.com/contact"},
	}
	return page, parse(t, "<html><head>"+completeHead+"</head><body><h1>About</h1></body></html>")
}

func TestDetectCleanPage(t *testing.T) {
	page, dom := cleanPage(t)
	assert.Empty(t, newDetector(t).Detect(page, dom))
}

func TestDetectTitleBoundary(t *testing.T) {
	d := newDetector(t)
	page, dom := cleanPage(t)

	page.Title = strings.Repeat("a", 70)
	assert.NotContains(t, d.Detect(page, dom), models.TitleTooLong)

	page.Title = strings.Repeat("a", 71)
	assert.Contains(t, d.Detect(page, dom), models.TitleTooLong)

	// runes, not bytes
	page.Title = strings.Repeat("é", 70)
	assert.NotContains(t, d.Detect(page, dom), models.TitleTooLong)

	page.Title = "   "
	issues := d.Detect(page, dom)
	assert.Contains(t, issues, models.TitleEmpty)
	assert.NotContains(t, issues, models.TitleTooLong)

	// rules are independent: a long blank title is both empty and too long
	page.Title = strings.Repeat(" ", 71)
	issues = d.Detect(page, dom)
	assert.Contains(t, issues, models.TitleEmpty)
	assert.Contains(t, issues, models.TitleTooLong)
}

func TestDetectDescriptionBoundaries(t *testing.T) {
	d := newDetector(t)
	page, dom := cleanPage(t)

	tests := []struct {
		length int
		want   []models.IssueTag
	}{
		{0, []models.IssueTag{models.DescriptionEmpty, models.DescriptionTooShort}},
		{109, []models.IssueTag{models.DescriptionTooShort}},
		{110, nil},
		{160, nil},
		{161, []models.IssueTag{models.DescriptionTooLong}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.length), func(t *testing.T) {
			page.Description = strings.Repeat("x", tt.length)
			issues := d.Detect(page, dom)
			for _, tag := range []models.IssueTag{models.DescriptionEmpty, models.DescriptionTooShort, models.DescriptionTooLong} {
				assert.Equal(t, contains(tt.want, tag), contains(issues, tag), "%s", tag)
			}
		})
	}

	t.Run("blank", func(t *testing.T) {
		page.Description = strings.Repeat(" ", 120)
		issues := d.Detect(page, dom)
		assert.Contains(t, issues, models.DescriptionEmpty)
		assert.NotContains(t, issues, models.DescriptionTooShort)
	})
}

func TestDetectHeadings(t *testing.T) {
	d := newDetector(t)
	page, _ := cleanPage(t)

	tests := []struct {
		name string
		body string
		want []models.IssueTag
	}{
		{"none", "<p>x</p>", []models.IssueTag{models.H1Missing}},
		{"blank", "<h1>  </h1>", []models.IssueTag{models.H1Missing}},
		{"multiple", "<h1>a</h1><h1>b</h1>", []models.IssueTag{models.MultipleH1}},
		{"too long", "<h1>" + strings.Repeat("h", 71) + "</h1>", []models.IssueTag{models.H1TooLong}},
		{"indented", "<h1>\n    Welcome\n" + strings.Repeat(" ", 80) + "<span>home</span>\n</h1>", []models.IssueTag{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom := parse(t, "<html><head>"+completeHead+"</head><body>"+tt.body+"</body></html>")
			assert.Equal(t, tt.want, d.Detect(page, dom))
		})
	}
}

func TestDetectOpenGraphIncomplete(t *testing.T) {
	d := newDetector(t)
	page, _ := cleanPage(t)

	head := strings.Replace(completeHead, `<meta property="og:image" content="https://example.com/i.png">`, "", 1)
	dom := parse(t, "<html><head>"+head+"</head><body><h1>About</h1></body></html>")

	assert.Equal(t, []models.IssueTag{models.OpenGraphIncomplete}, d.Detect(page, dom))
}

func TestDetectNilDocument(t *testing.T) {
	page, _ := cleanPage(t)
	issues := newDetector(t).Detect(page, nil)

	assert.Contains(t, issues, models.H1Missing)
	assert.Contains(t, issues, models.OpenGraphIncomplete)
}

func TestDetectIncomingLinksAndSitemap(t *testing.T) {
	d := newDetector(t)
	page, dom := cleanPage(t)

	page.IncomingLinks = []string{"https://example.com"}
	page.InSitemap = false
	issues := d.Detect(page, dom)
	assert.Contains(t, issues, models.IncomingLinksTooFew)
	assert.Contains(t, issues, models.NotInSitemap)

	assert.NotContains(t, d.WithSitemapCheck(false).Detect(page, dom), models.NotInSitemap)
	// the original detector is unchanged
	assert.Contains(t, d.Detect(page, dom), models.NotInSitemap)
}

func TestDetectIsIdempotentAndOrdered(t *testing.T) {
	d := newDetector(t)
	page := models.Page{URL: "https://example.com/animes/x"}
	dom := parse(t, `<html><body><h1></h1><h1>`+strings.Repeat("h", 80)+`</h1></body></html>`)

	first := d.Detect(page, dom)
	second := d.Detect(page, dom)
	assert.Equal(t, first, second)

	pos := make(map[models.IssueTag]int)
	for i, tag := range models.AllIssueTags {
		pos[tag] = i
	}
	for i := 1; i < len(first); i++ {
		assert.Less(t, pos[first[i-1]], pos[first[i]])
	}
}

type row struct {
	label    string
	season   int
	number   int
	title    string
	synopsis string
}

func listingDoc(t *testing.T, season string, rows ...row) *goquery.Document {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><head>" + completeHead + "</head><body><h1>Show</h1>")
	if season != "" {
		fmt.Fprintf(&b, `<button class="dropdown-toggle">%s</button>`, season)
	}
	for _, r := range rows {
		fmt.Fprintf(&b, `<div class="card"><div class="card-body"><h5 class="card-title">%s</h5>`+
			`<p class="text-muted mb-0">Saison %d - %s %d</p><p class="card-text">%s</p></div></div>`,
			r.title, r.season, r.label, r.number, r.synopsis)
	}
	b.WriteString("</body></html>")
	return parse(t, b.String())
}

func listingPage() models.Page {
	return models.Page{
		URL:           "https://example.com/animes/naruto",
		Title:         "Naruto",
		Description:   strings.Repeat("d", 120),
		Content:       "Episodes",
		InSitemap:     true,
		IncomingLinks: []string{"https://example.com", "https://example.com/animes"},
	}
}

func TestListingOrderingLaw(t *testing.T) {
	d := newDetector(t)

	sorted := listingDoc(t, "Saison 2",
		row{label: "Épisode", season: 1, number: 1},
		row{label: "Épisode", season: 1, number: 2},
		row{label: "Épisode", season: 2, number: 1},
	)
	assert.NotContains(t, d.Detect(listingPage(), sorted), models.DataInconsistency)

	shuffled := listingDoc(t, "Saison 2",
		row{label: "Épisode", season: 2, number: 1},
		row{label: "Épisode", season: 1, number: 1},
		row{label: "Épisode", season: 1, number: 2},
	)
	assert.Contains(t, d.Detect(listingPage(), shuffled), models.DataInconsistency)
}

func TestListingIgnoresNonOrdinaryRowsForOrdering(t *testing.T) {
	dom := listingDoc(t, "Saison 1",
		row{label: "Épisode", season: 1, number: 1},
		row{label: "Film", season: 1, number: 9},
		row{label: "Spécial", season: 1, number: 1},
		row{label: "Épisode", season: 1, number: 2},
	)
	assert.Empty(t, newDetector(t).Detect(listingPage(), dom))
}

func TestListingSeasonTooHigh(t *testing.T) {
	d := newDetector(t)
	ep := row{label: "Épisode", season: 1, number: 1}

	assert.Contains(t, d.Detect(listingPage(), listingDoc(t, "Saison 6", ep)), models.DataInconsistencySeason)
	assert.NotContains(t, d.Detect(listingPage(), listingDoc(t, "Saison 5", ep)), models.DataInconsistencySeason)
	// no season element
	assert.NotContains(t, d.Detect(listingPage(), listingDoc(t, "", ep)), models.DataInconsistencySeason)
}

func TestListingSummaryMismatch(t *testing.T) {
	d := newDetector(t)

	ordinary := listingDoc(t, "Saison 1",
		row{label: "Épisode", season: 1, number: 1, title: "The big RECAP"},
	)
	assert.Contains(t, d.Detect(listingPage(), ordinary), models.DataInconsistencySummary)

	inSynopsis := listingDoc(t, "Saison 1",
		row{label: "Spécial", season: 1, number: 1, synopsis: "A recap of season one"},
	)
	assert.Contains(t, d.Detect(listingPage(), inSynopsis), models.DataInconsistencySummary)

	recap := listingDoc(t, "Saison 1",
		row{label: "Épisode récapitulatif", season: 1, number: 1, title: "Recap"},
	)
	assert.NotContains(t, d.Detect(listingPage(), recap), models.DataInconsistencySummary)
}

func TestListingRowsParsing(t *testing.T) {
	l, err := compileListing(DefaultRules().Listing)
	require.NoError(t, err)

	dom := listingDoc(t, "Saison 1",
		row{label: "Épisode récapitulatif", season: 1, number: 4, title: "Looking back", synopsis: "So far"},
		row{label: "Bonus", season: 1, number: 1},
		row{label: "Film", season: 2, number: 1, title: "Movie"},
	)

	assert.Equal(t, []models.Episode{
		{Season: 1, Type: models.EpisodeRecap, Number: 4, Title: "Looking back", Synopsis: "So far"},
		{Season: 2, Type: models.EpisodeFilm, Number: 1, Title: "Movie"},
	}, l.episodes(dom))
}

func TestListingRowsCollapseWhitespace(t *testing.T) {
	l, err := compileListing(DefaultRules().Listing)
	require.NoError(t, err)

	dom := parse(t, `<html><body><button class="dropdown-toggle">
		Saison
		2
	</button><div class="card"><h5 class="card-title">  Pilot
		episode </h5><p class="text-muted mb-0">Saison
		1 -  Épisode
		3</p></div></body></html>`)

	assert.Equal(t, 2, l.pageSeason(dom))
	assert.Equal(t, []models.Episode{
		{Season: 1, Type: models.EpisodeOrdinary, Number: 3, Title: "Pilot episode"},
	}, l.episodes(dom))
}

func TestListingWithoutRowsIsContentEmpty(t *testing.T) {
	d := newDetector(t)
	dom := listingDoc(t, "Saison 1", row{label: "Bonus", season: 1, number: 1})

	assert.Equal(t, []models.IssueTag{models.ContentEmpty}, d.Detect(listingPage(), dom))

	// same markup outside the catalog path raises nothing
	page := listingPage()
	page.URL = "https://example.com/news/naruto"
	assert.Empty(t, d.Detect(page, dom))
}

func TestListingMatchesCatalogPaths(t *testing.T) {
	l, err := compileListing(DefaultRules().Listing)
	require.NoError(t, err)

	for url, want := range map[string]bool{
		"https://example.com/animes/naruto":          true,
		"https://example.com/animes/naruto/season-2": true,
		"https://example.com/animes":                 false,
		"https://example.com/news/animes/naruto":     false,
	} {
		assert.Equal(t, want, l.matches(url), url)
	}
}

func TestNewDetectorRejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Listing.RowSelector = "p["
	_, err := NewDetector(rules)
	assert.ErrorIs(t, err, ErrInvalidRules)

	rules = DefaultRules()
	rules.Listing.SeasonPattern = "Saison ("
	_, err = NewDetector(rules)
	assert.ErrorIs(t, err, ErrInvalidRules)

	rules = DefaultRules()
	rules.Listing.Labels.Film = rules.Listing.Labels.Episode
	_, err = NewDetector(rules)
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	rules = DefaultRules()
	rules.Listing.Labels.Special = " "
	_, err = NewDetector(rules)
	assert.ErrorIs(t, err, ErrEmptyLabel)
}

func TestIncomingLinks(t *testing.T) {
	pages := []models.Page{
		{URL: "https://example.com", Links: []string{"", "/b", "/c/"}},
		{URL: "https://example.com/b", Links: []string{"/", "/c"}},
		{URL: "https://example.com/c", Links: []string{"/c"}},
		{URL: "https://example.com/d"},
	}

	incoming := IncomingLinks("https://example.com/", pages)

	assert.Equal(t, []string{"https://example.com/b"}, incoming["https://example.com"])
	assert.Equal(t, []string{"https://example.com"}, incoming["https://example.com/b"])
	assert.Equal(t, []string{"https://example.com", "https://example.com/b"}, incoming["https://example.com/c"])
	assert.Empty(t, incoming["https://example.com/d"])
	assert.Len(t, incoming, 4)

	// Q is listed for P iff Q links to P and Q differs from P
	for _, p := range pages {
		for _, q := range pages {
			links := false
			for _, l := range q.Links {
				if "https://example.com"+strings.TrimRight(l, "/") == p.URL {
					links = true
				}
			}
			assert.Equal(t, links && q.URL != p.URL, contains(incoming[p.URL], q.URL), "%s -> %s", q.URL, p.URL)
		}
	}
}

func contains[T comparable](list []T, s T) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestAnnotate(t *testing.T) {
	d := newDetector(t)
	page, dom := cleanPage(t)
	page.URL = "https://example.com"
	page.IncomingLinks = nil
	page.DOM = dom
	page.Links = []string{"/about"}
	page.InSitemap = false

	other, otherDOM := cleanPage(t)
	other.IncomingLinks = nil
	other.DOM = otherDOM
	other.Links = []string{"/"}
	other.InSitemap = false

	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	result := &models.CrawlResult{
		BaseURL:        "https://example.com",
		Pages:          []models.Page{page, other},
		StartedAt:      started,
		Duration:       1500 * time.Millisecond,
		SitemapChecked: false,
	}

	snap := Annotate(result.BaseURL, result, d)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, started, snap.CrawledAt)
	assert.Equal(t, int64(1500), snap.DurationMs)
	require.Len(t, snap.Pages, 2)
	for _, p := range snap.Pages {
		assert.Nil(t, p.DOM)
		assert.Len(t, p.IncomingLinks, 1)
		assert.Contains(t, p.Issues, models.IncomingLinksTooFew)
		assert.NotContains(t, p.Issues, models.NotInSitemap)
	}

	// input is not mutated
	assert.NotNil(t, result.Pages[0].DOM)
	assert.Empty(t, result.Pages[0].Issues)
	assert.Empty(t, result.Pages[0].IncomingLinks)

	again := Annotate(result.BaseURL, result, d)
	assert.NotEqual(t, snap.ID, again.ID)
	assert.Equal(t, snap.Pages, again.Pages)
}

func TestAnnotateChecksSitemapWhenEnabled(t *testing.T) {
	page, dom := cleanPage(t)
	page.DOM = dom
	page.InSitemap = false

	result := &models.CrawlResult{BaseURL: "https://example.com", Pages: []models.Page{page}, SitemapChecked: true}
	snap := Annotate(result.BaseURL, result, newDetector(t))

	assert.Contains(t, snap.Pages[0].Issues, models.NotInSitemap)
}
