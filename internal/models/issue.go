package models

// IssueTag names an SEO or content-quality defect found on a page
type IssueTag string

const (
	TitleEmpty               IssueTag = "TITLE_EMPTY"
	TitleTooLong             IssueTag = "TITLE_TOO_LONG"
	DescriptionEmpty         IssueTag = "DESCRIPTION_EMPTY"
	DescriptionTooShort      IssueTag = "DESCRIPTION_TOO_SHORT"
	DescriptionTooLong       IssueTag = "DESCRIPTION_TOO_LONG"
	ContentEmpty             IssueTag = "CONTENT_EMPTY"
	H1Missing                IssueTag = "H1_MISSING"
	MultipleH1               IssueTag = "MULTIPLE_H1"
	H1TooLong                IssueTag = "H1_TOO_LONG"
	OpenGraphIncomplete      IssueTag = "OPEN_GRAPH_TAGS_INCOMPLETE"
	IncomingLinksTooFew      IssueTag = "INCOMING_LINKS_TOO_FEW"
	NotInSitemap             IssueTag = "NOT_IN_SITEMAP"
	DataInconsistency        IssueTag = "DATA_INCONSISTENCY"
	DataInconsistencySeason  IssueTag = "DATA_INCONSISTENCY_SEASON"
	DataInconsistencySummary IssueTag = "DATA_INCONSISTENCY_SUMMARY"
)

// AllIssueTags lists every known tag in declaration order
var AllIssueTags = []IssueTag{
	TitleEmpty,
	TitleTooLong,
	DescriptionEmpty,
	DescriptionTooShort,
	DescriptionTooLong,
	ContentEmpty,
	H1Missing,
	MultipleH1,
	H1TooLong,
	OpenGraphIncomplete,
	IncomingLinksTooFew,
	NotInSitemap,
	DataInconsistency,
	DataInconsistencySeason,
	DataInconsistencySummary,
}

// IsConsistencyIssue reports whether the tag belongs to the listing
// consistency group or flags sitemap absence.
func (t IssueTag) IsConsistencyIssue() bool {
	switch t {
	case DataInconsistency, DataInconsistencySeason, DataInconsistencySummary, NotInSitemap:
		return true
	}
	return false
}

// EpisodeType is the kind of row found on a catalog listing
type EpisodeType string

const (
	EpisodeOrdinary EpisodeType = "EPISODE"
	EpisodeRecap    EpisodeType = "RECAP"
	EpisodeSpecial  EpisodeType = "SPECIAL"
	EpisodeFilm     EpisodeType = "FILM"
)

// Episode is a listing row parsed during issue detection. It is never persisted.
type Episode struct {
	Season   int
	Type     EpisodeType
	Number   int
	Title    string
	Synopsis string
}
