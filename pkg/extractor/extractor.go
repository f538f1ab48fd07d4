package extractor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

// TextMode selects how the visible text of a page is computed
type TextMode string

const (
	// TextModeBody keeps all text under <body> except scripts and styles.
	TextModeBody TextMode = "body"
	// TextModeMain keeps the main content found by trafilatura.
	TextModeMain TextMode = "main"
)

const invisible = "script, style, noscript, template"

// Extractor turns a fetched body into a page record
type Extractor struct {
	mode TextMode
}

// New creates a new Extractor instance. Unknown modes fall back to body text.
func New(mode TextMode) *Extractor {
	if mode != TextModeMain {
		mode = TextModeBody
	}
	return &Extractor{mode: mode}
}

// Extract parses the body of pageURL. Only links pointing inside baseURL are kept,
// with the base prefix stripped.
func (e *Extractor) Extract(body, pageURL, baseURL string) (models.Page, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return models.Page{}, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	page := models.Page{
		URL:         utils.NormalizeURL(pageURL),
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: ExtractDescription(doc),
		Links:       ExtractLinks(doc, baseURL),
		Content:     e.ExtractText(body, doc),
		DOM:         doc,
	}
	return page, nil
}

// ExtractDescription returns the content of the description meta tag
func ExtractDescription(doc *goquery.Document) string {
	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return desc
}

// ExtractLinks collects deduplicated, site-relative hrefs
func ExtractLinks(doc *goquery.Document, baseURL string) []string {
	base := utils.NormalizeURL(baseURL)
	seen := make(map[string]bool)
	links := []string{}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)

		var link string
		switch {
		case strings.HasPrefix(href, "//"):
			return
		case strings.HasPrefix(href, "/"):
			link = href
		case base != "" && (href == base || strings.HasPrefix(href, base+"/") || strings.HasPrefix(href, base+"?") || strings.HasPrefix(href, base+"#")):
			link = strings.TrimPrefix(href, base)
		default:
			return
		}

		if idx := strings.Index(link, "#"); idx >= 0 {
			link = link[:idx]
		}
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})

	sort.Strings(links)
	return links
}

// ExtractText returns the visible text of the page according to the text mode
func (e *Extractor) ExtractText(body string, doc *goquery.Document) string {
	if e.mode == TextModeMain {
		result, err := trafilatura.Extract(strings.NewReader(body), trafilatura.Options{})
		if err == nil && result != nil && result.ContentText != "" {
			return utils.CleanText(result.ContentText)
		}
	}
	return bodyText(doc)
}

func bodyText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find(invisible).Remove()
	return utils.CleanText(body.Text())
}
