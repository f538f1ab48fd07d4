package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/seotrend/internal/config"
	"github.com/amosWeiskopf/seotrend/internal/logging"
	"github.com/amosWeiskopf/seotrend/internal/models"
	"github.com/amosWeiskopf/seotrend/pkg/reporter"
	"github.com/amosWeiskopf/seotrend/pkg/storage"
)

const (
	cmdCrawl         = "crawl"
	cmdInconsistency = "inconsistency-history"
	cmdReport        = "report"
)

var ErrUnknownCommand = errors.New("unknown command")

// app carries the state shared by every subcommand
type app struct {
	configPath string
	verbose    bool
	format     string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the seotrend command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "seotrend",
		Short: "seotrend - site SEO crawler with snapshot history",
		Long: `seotrend crawls every internal page of a site, tags SEO and data
consistency issues, and keeps a history of snapshots so that the latest
crawl can be compared with the previous one.

Run without arguments to be prompted for a URL and a command.`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runPrompt,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose output")

	root.AddCommand(a.newCrawlCmd())
	root.AddCommand(a.newInconsistencyCmd())
	root.AddCommand(a.newReportCmd())

	return root
}

// setup loads configuration and builds the logger before any command runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Logging, a.verbose)
	return nil
}

// runPrompt asks for the base URL and command name, then dispatches
func (a *app) runPrompt(cmd *cobra.Command, _ []string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	baseURL, err := ask(in, out, "Base URL: ")
	if err != nil {
		return err
	}
	name, err := ask(in, out, fmt.Sprintf("Command (%s, %s, %s): ", cmdCrawl, cmdInconsistency, cmdReport))
	if err != nil {
		return err
	}

	switch name {
	case cmdCrawl:
		return a.crawl(cmd, baseURL)
	case cmdInconsistency:
		return a.inconsistencies(cmd, baseURL)
	case cmdReport:
		return a.report(cmd, baseURL)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func ask(in *bufio.Scanner, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", fmt.Errorf("read input: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(in.Text()), nil
}

// newReporter returns the reporter for the --format flag, falling back to config
func (a *app) newReporter() (*reporter.Reporter, error) {
	format := a.cfg.Report.Format
	if a.format != "" {
		format = a.format
	}
	return reporter.New(format)
}

// history loads the stored history of baseURL
func (a *app) history(cmd *cobra.Command, baseURL string) (models.SiteHistory, error) {
	store, err := storage.Open(a.cfg.Storage)
	if err != nil {
		return models.SiteHistory{}, err
	}
	defer store.Close()

	histories, err := store.LoadHistory(cmd.Context())
	if err != nil {
		return models.SiteHistory{}, fmt.Errorf("failed to load history: %w", err)
	}
	return storage.FindSite(histories, baseURL)
}

func addFormatFlag(cmd *cobra.Command, dst *string) {
	names := make([]string, len(reporter.Formats))
	for i, f := range reporter.Formats {
		names[i] = string(f)
	}
	cmd.Flags().StringVar(dst, "format", "", "Output format ("+strings.Join(names, ", ")+")")
}
