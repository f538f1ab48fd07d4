package analyzer

// Rules holds the thresholds and listing selectors used by the Detector.
// Field tags match the "rules" section of the configuration file.
type Rules struct {
	TitleMaxLength         int          `mapstructure:"title_max_length" json:"title_max_length"`
	DescriptionMinLength   int          `mapstructure:"description_min_length" json:"description_min_length"`
	DescriptionMaxLength   int          `mapstructure:"description_max_length" json:"description_max_length"`
	H1MaxLength            int          `mapstructure:"h1_max_length" json:"h1_max_length"`
	IncomingLinksThreshold int          `mapstructure:"incoming_links_threshold" json:"incoming_links_threshold"`
	MaxSeason              int          `mapstructure:"max_season" json:"max_season"`
	Listing                ListingRules `mapstructure:"listing" json:"listing"`
}

// ListingRules locate season and episode data on catalog detail pages.
// The selectors follow the target site's markup and must be revalidated
// whenever that markup changes.
type ListingRules struct {
	PathPattern      string        `mapstructure:"path_pattern" json:"path_pattern"`
	SeasonSelector   string        `mapstructure:"season_selector" json:"season_selector"`
	RowSelector      string        `mapstructure:"row_selector" json:"row_selector"`
	BlockSelector    string        `mapstructure:"block_selector" json:"block_selector"`
	TitleSelector    string        `mapstructure:"title_selector" json:"title_selector"`
	SynopsisSelector string        `mapstructure:"synopsis_selector" json:"synopsis_selector"`
	SeasonPattern    string        `mapstructure:"season_pattern" json:"season_pattern"`
	Labels           EpisodeLabels `mapstructure:"labels" json:"labels"`
}

// EpisodeLabels are the row prefixes that identify each episode type
type EpisodeLabels struct {
	Episode string `mapstructure:"episode" json:"episode"`
	Recap   string `mapstructure:"recap" json:"recap"`
	Special string `mapstructure:"special" json:"special"`
	Film    string `mapstructure:"film" json:"film"`
}

// DefaultRules returns the built-in rule set
func DefaultRules() Rules {
	return Rules{
		TitleMaxLength:         70,
		DescriptionMinLength:   110,
		DescriptionMaxLength:   160,
		H1MaxLength:            70,
		IncomingLinksThreshold: 1,
		MaxSeason:              5,
		Listing: ListingRules{
			PathPattern:      `^/animes/.+`,
			SeasonSelector:   ".dropdown-toggle",
			RowSelector:      "p.text-muted.mb-0",
			BlockSelector:    ".card",
			TitleSelector:    ".card-title",
			SynopsisSelector: ".card-text",
			SeasonPattern:    `Saison (\d+)`,
			Labels: EpisodeLabels{
				Episode: "Épisode",
				Recap:   "Épisode récapitulatif",
				Special: "Spécial",
				Film:    "Film",
			},
		},
	}
}
