package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amosWeiskopf/seotrend/pkg/analyzer"
	"github.com/amosWeiskopf/seotrend/pkg/extractor"
	"github.com/amosWeiskopf/seotrend/pkg/reporter"
	"github.com/amosWeiskopf/seotrend/pkg/storage"
)

var (
	ErrInvalidCrawler = errors.New("invalid crawler configuration")
	ErrInvalidStorage = errors.New("invalid storage configuration")
	ErrInvalidLogging = errors.New("invalid logging configuration")
	ErrInvalidReport  = errors.New("invalid report configuration")
	ErrInvalidRules   = errors.New("invalid rules configuration")
)

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Storage configuration
	Storage storage.Config `mapstructure:"storage"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`

	// Report configuration
	Report ReportConfig `mapstructure:"report"`

	// Issue detection thresholds and listing selectors
	Rules analyzer.Rules `mapstructure:"rules"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	UserAgent  string        `mapstructure:"user_agent"`
	Delay      time.Duration `mapstructure:"delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UseSitemap bool          `mapstructure:"use_sitemap"`
	TextMode   string        `mapstructure:"text_mode"` // "body" or "main"
	MaxPages   int           `mapstructure:"max_pages"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// ReportConfig holds report configuration
type ReportConfig struct {
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file, or from config.yaml in the
// usual locations when configPath is empty. Environment variables prefixed
// with SEOTREND_ override both, e.g. SEOTREND_CRAWLER_DELAY=1s.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.seotrend")
	}

	// Set defaults
	setDefaults(v)

	// Bind environment variables
	v.SetEnvPrefix("SEOTREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Crawler defaults
	v.SetDefault("crawler.user_agent", "seotrend-lite")
	v.SetDefault("crawler.delay", "250ms")
	v.SetDefault("crawler.timeout", "60s")
	v.SetDefault("crawler.use_sitemap", true)
	v.SetDefault("crawler.text_mode", string(extractor.TextModeBody))
	v.SetDefault("crawler.max_pages", 0)

	// Storage defaults; an empty path resolves under the XDG data directory
	v.SetDefault("storage.type", storage.TypeFile)
	v.SetDefault("storage.path", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Report defaults
	v.SetDefault("report.format", string(reporter.FormatText))

	// Rule defaults
	r := analyzer.DefaultRules()
	v.SetDefault("rules.title_max_length", r.TitleMaxLength)
	v.SetDefault("rules.description_min_length", r.DescriptionMinLength)
	v.SetDefault("rules.description_max_length", r.DescriptionMaxLength)
	v.SetDefault("rules.h1_max_length", r.H1MaxLength)
	v.SetDefault("rules.incoming_links_threshold", r.IncomingLinksThreshold)
	v.SetDefault("rules.max_season", r.MaxSeason)
	v.SetDefault("rules.listing.path_pattern", r.Listing.PathPattern)
	v.SetDefault("rules.listing.season_selector", r.Listing.SeasonSelector)
	v.SetDefault("rules.listing.row_selector", r.Listing.RowSelector)
	v.SetDefault("rules.listing.block_selector", r.Listing.BlockSelector)
	v.SetDefault("rules.listing.title_selector", r.Listing.TitleSelector)
	v.SetDefault("rules.listing.synopsis_selector", r.Listing.SynopsisSelector)
	v.SetDefault("rules.listing.season_pattern", r.Listing.SeasonPattern)
	v.SetDefault("rules.listing.labels.episode", r.Listing.Labels.Episode)
	v.SetDefault("rules.listing.labels.recap", r.Listing.Labels.Recap)
	v.SetDefault("rules.listing.labels.special", r.Listing.Labels.Special)
	v.SetDefault("rules.listing.labels.film", r.Listing.Labels.Film)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Crawler.UserAgent) == "" {
		return fmt.Errorf("%w: crawler.user_agent must not be empty", ErrInvalidCrawler)
	}
	if c.Crawler.Delay < 0 {
		return fmt.Errorf("%w: crawler.delay must not be negative", ErrInvalidCrawler)
	}
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("%w: crawler.timeout must be positive", ErrInvalidCrawler)
	}
	if c.Crawler.MaxPages < 0 {
		return fmt.Errorf("%w: crawler.max_pages must not be negative", ErrInvalidCrawler)
	}
	switch extractor.TextMode(c.Crawler.TextMode) {
	case extractor.TextModeBody, extractor.TextModeMain:
	default:
		return fmt.Errorf("%w: crawler.text_mode %q is not body or main", ErrInvalidCrawler, c.Crawler.TextMode)
	}

	switch c.Storage.Type {
	case storage.TypeFile, storage.TypeSQLite:
	default:
		return fmt.Errorf("%w: storage.type %q is not file or sqlite", ErrInvalidStorage, c.Storage.Type)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q is not text or json", ErrInvalidLogging, c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q is unknown", ErrInvalidLogging, c.Logging.Level)
	}

	if _, err := reporter.New(c.Report.Format); err != nil {
		return fmt.Errorf("%w: report.format: %w", ErrInvalidReport, err)
	}

	r := c.Rules
	if r.TitleMaxLength <= 0 || r.H1MaxLength <= 0 {
		return fmt.Errorf("%w: title and h1 maximum lengths must be positive", ErrInvalidRules)
	}
	if r.DescriptionMinLength < 0 || r.DescriptionMaxLength < r.DescriptionMinLength {
		return fmt.Errorf("%w: description length bounds are inverted", ErrInvalidRules)
	}
	if _, err := analyzer.NewDetector(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	return nil
}
