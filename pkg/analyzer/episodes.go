package analyzer

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/utils"
)

const summaryKeyword = "recap"

// listing holds the compiled form of ListingRules
type listing struct {
	path     *regexp.Regexp
	season   *regexp.Regexp
	number   *regexp.Regexp
	types    map[string]models.EpisodeType
	seasonEl cascadia.Selector
	row      cascadia.Selector
	block    cascadia.Selector
	title    cascadia.Selector
	synopsis cascadia.Selector
}

func compileListing(r ListingRules) (*listing, error) {
	l := &listing{types: make(map[string]models.EpisodeType)}

	var err error
	if l.path, err = regexp.Compile(r.PathPattern); err != nil {
		return nil, fieldError("listing.path_pattern", err)
	}
	if l.season, err = regexp.Compile(r.SeasonPattern); err != nil {
		return nil, fieldError("listing.season_pattern", err)
	}

	labels := map[string]models.EpisodeType{
		r.Labels.Episode: models.EpisodeOrdinary,
		r.Labels.Recap:   models.EpisodeRecap,
		r.Labels.Special: models.EpisodeSpecial,
		r.Labels.Film:    models.EpisodeFilm,
	}
	alternatives := make([]string, 0, len(labels))
	for label, typ := range labels {
		if strings.TrimSpace(label) == "" {
			return nil, fieldError("listing.labels", ErrEmptyLabel)
		}
		l.types[label] = typ
		alternatives = append(alternatives, regexp.QuoteMeta(label))
	}
	if len(l.types) != 4 {
		return nil, fieldError("listing.labels", ErrDuplicateLabel)
	}
	// Alternation is leftmost-first, so longer labels must be tried first
	sort.Slice(alternatives, func(i, j int) bool {
		if len(alternatives[i]) != len(alternatives[j]) {
			return len(alternatives[i]) > len(alternatives[j])
		}
		return alternatives[i] < alternatives[j]
	})
	l.number = regexp.MustCompile(`(` + strings.Join(alternatives, "|") + `) (\d+)`)

	selectors := []struct {
		name string
		expr string
		dst  *cascadia.Selector
	}{
		{"listing.season_selector", r.SeasonSelector, &l.seasonEl},
		{"listing.row_selector", r.RowSelector, &l.row},
		{"listing.block_selector", r.BlockSelector, &l.block},
		{"listing.title_selector", r.TitleSelector, &l.title},
		{"listing.synopsis_selector", r.SynopsisSelector, &l.synopsis},
	}
	for _, s := range selectors {
		sel, err := cascadia.Compile(s.expr)
		if err != nil {
			return nil, fieldError(s.name, err)
		}
		*s.dst = sel
	}

	return l, nil
}

// matches reports whether pageURL is a catalog detail page
func (l *listing) matches(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return l.path.MatchString(u.Path)
}

// pageSeason reads the season shown in the page's season element, 0 when absent
func (l *listing) pageSeason(dom *goquery.Document) int {
	text := utils.CleanText(dom.FindMatcher(l.seasonEl).First().Text())
	m := l.season.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// episodes parses every listing row carrying both a season and a typed number.
// Rows missing either are skipped.
func (l *listing) episodes(dom *goquery.Document) []models.Episode {
	var out []models.Episode
	dom.FindMatcher(l.row).Each(func(_ int, s *goquery.Selection) {
		text := utils.CleanText(s.Text())
		sm := l.season.FindStringSubmatch(text)
		nm := l.number.FindStringSubmatch(text)
		if sm == nil || nm == nil {
			return
		}
		season, err := strconv.Atoi(sm[1])
		if err != nil {
			return
		}
		number, err := strconv.Atoi(nm[2])
		if err != nil {
			return
		}

		block := s.ClosestMatcher(l.block)
		out = append(out, models.Episode{
			Season:   season,
			Type:     l.types[nm[1]],
			Number:   number,
			Title:    utils.CleanText(block.FindMatcher(l.title).First().Text()),
			Synopsis: utils.CleanText(block.FindMatcher(l.synopsis).First().Text()),
		})
	})
	return out
}

// inspect returns the consistency tags raised by a catalog detail page
func (l *listing) inspect(dom *goquery.Document, maxSeason int) []models.IssueTag {
	var tags []models.IssueTag

	episodes := l.episodes(dom)
	if len(episodes) == 0 {
		tags = append(tags, models.ContentEmpty)
	}

	if !ordered(episodes) {
		tags = append(tags, models.DataInconsistency)
	}

	if season := l.pageSeason(dom); season > maxSeason {
		tags = append(tags, models.DataInconsistencySeason)
	}

	for _, ep := range episodes {
		if ep.Type != models.EpisodeRecap && mentionsSummary(ep) {
			tags = append(tags, models.DataInconsistencySummary)
			break
		}
	}

	return tags
}

// ordered reports whether the ordinary episodes, in document order, are
// weakly increasing by (season, number).
func ordered(episodes []models.Episode) bool {
	var prev *models.Episode
	for i := range episodes {
		ep := &episodes[i]
		if ep.Type != models.EpisodeOrdinary {
			continue
		}
		if prev != nil && (ep.Season < prev.Season || (ep.Season == prev.Season && ep.Number < prev.Number)) {
			return false
		}
		prev = ep
	}
	return true
}

func mentionsSummary(ep models.Episode) bool {
	return strings.Contains(strings.ToLower(ep.Title), summaryKeyword) ||
		strings.Contains(strings.ToLower(ep.Synopsis), summaryKeyword)
}
