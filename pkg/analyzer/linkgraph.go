package analyzer

import (
	"sort"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

// IncomingLinks maps every page URL to the sorted URLs of the other pages
// linking to it. Links are resolved against baseURL before comparison.
func IncomingLinks(baseURL string, pages []models.Page) map[string][]string {
	// Build link graph
	outbound := make([]map[string]bool, len(pages))
	for i, page := range pages {
		targets := make(map[string]bool, len(page.Links))
		for _, link := range page.Links {
			targets[utils.ResolveLink(baseURL, link)] = true
		}
		outbound[i] = targets
	}

	incoming := make(map[string][]string, len(pages))
	for _, page := range pages {
		sources := []string{}
		for i, other := range pages {
			if other.URL == page.URL {
				continue
			}
			if outbound[i][page.URL] {
				sources = append(sources, other.URL)
			}
		}
		sort.Strings(sources)
		incoming[page.URL] = sources
	}

	return incoming
}
