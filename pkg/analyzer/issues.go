package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

var (
	// ErrInvalidRules is returned by NewDetector when a rule cannot be compiled
	ErrInvalidRules   = errors.New("invalid analyzer rules")
	ErrEmptyLabel     = errors.New("episode label is empty")
	ErrDuplicateLabel = errors.New("episode labels must be distinct")
)

// requiredOpenGraph are the og: properties every page must declare
var requiredOpenGraph = []string{"og:title", "og:type", "og:image", "og:url"}

func fieldError(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidRules, field, err)
}

// Detector tags pages with SEO and content-quality issues. It holds no
// per-page state and may be reused across pages and crawls.
type Detector struct {
	rules        Rules
	listing      *listing
	checkSitemap bool
}

// NewDetector compiles the listing selectors and patterns in rules
func NewDetector(rules Rules) (*Detector, error) {
	l, err := compileListing(rules.Listing)
	if err != nil {
		return nil, err
	}
	return &Detector{rules: rules, listing: l, checkSitemap: true}, nil
}

// WithSitemapCheck returns a copy of d that raises NOT_IN_SITEMAP only when
// enabled is true.
func (d *Detector) WithSitemapCheck(enabled bool) *Detector {
	c := *d
	c.checkSitemap = enabled
	return &c
}

// Detect returns the issues found on page, in AllIssueTags order without
// duplicates. dom is the parsed document of the page; nil is treated as an
// empty document.
func (d *Detector) Detect(page models.Page, dom *goquery.Document) []models.IssueTag {
	if dom == nil {
		dom = emptyDocument()
	}

	found := make(map[models.IssueTag]bool)
	add := func(tags ...models.IssueTag) {
		for _, t := range tags {
			found[t] = true
		}
	}

	// Each rule is checked on its own; an empty description is also too short
	if utils.IsBlank(page.Title) {
		add(models.TitleEmpty)
	}
	if utils.Length(page.Title) > d.rules.TitleMaxLength {
		add(models.TitleTooLong)
	}

	n := utils.Length(page.Description)
	if utils.IsBlank(page.Description) {
		add(models.DescriptionEmpty)
	}
	if n < d.rules.DescriptionMinLength {
		add(models.DescriptionTooShort)
	}
	if n > d.rules.DescriptionMaxLength {
		add(models.DescriptionTooLong)
	}

	if utils.IsBlank(page.Content) {
		add(models.ContentEmpty)
	}

	add(d.headings(dom)...)

	if !hasOpenGraph(dom) {
		add(models.OpenGraphIncomplete)
	}

	if len(page.IncomingLinks) <= d.rules.IncomingLinksThreshold {
		add(models.IncomingLinksTooFew)
	}

	if d.checkSitemap && !page.InSitemap {
		add(models.NotInSitemap)
	}

	if d.listing.matches(page.URL) {
		add(d.listing.inspect(dom, d.rules.MaxSeason)...)
	}

	tags := make([]models.IssueTag, 0, len(found))
	for _, t := range models.AllIssueTags {
		if found[t] {
			tags = append(tags, t)
		}
	}
	return tags
}

func (d *Detector) headings(dom *goquery.Document) []models.IssueTag {
	var tags []models.IssueTag

	h1 := dom.Find("h1")
	texts := make([]string, 0, h1.Length())
	h1.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, utils.CleanText(s.Text()))
	})

	missing := len(texts) == 0
	tooLong := false
	for _, text := range texts {
		if text == "" {
			missing = true
		}
		if utils.Length(text) > d.rules.H1MaxLength {
			tooLong = true
		}
	}

	if missing {
		tags = append(tags, models.H1Missing)
	}
	if len(texts) > 1 {
		tags = append(tags, models.MultipleH1)
	}
	if tooLong {
		tags = append(tags, models.H1TooLong)
	}
	return tags
}

func hasOpenGraph(dom *goquery.Document) bool {
	present := make(map[string]bool)
	dom.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		if prop, ok := s.Attr("property"); ok {
			present[strings.TrimSpace(prop)] = true
		}
	})

	for _, prop := range requiredOpenGraph {
		if !present[prop] {
			return false
		}
	}
	return true
}

func emptyDocument() *goquery.Document {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
	return doc
}
