package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/seotrend/pkg/analyzer"
	"github.com/amosWeiskopf/seotrend/pkg/crawler"
	"github.com/amosWeiskopf/seotrend/pkg/extractor"
	"github.com/amosWeiskopf/seotrend/pkg/fetcher"
	"github.com/amosWeiskopf/seotrend/pkg/reporter"
	"github.com/amosWeiskopf/seotrend/pkg/storage"
)

func (a *app) newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [URL]",
		Short: "Crawl a site, store a snapshot and print totals or changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.crawl(cmd, args[0])
		},
	}
	addFormatFlag(cmd, &a.format)
	return cmd
}

// crawl runs one full cycle: crawl, annotate, persist, summarize
func (a *app) crawl(cmd *cobra.Command, rawURL string) error {
	ctx := cmd.Context()

	base, err := crawler.ParseBaseURL(rawURL)
	if err != nil {
		return err
	}
	rep, err := a.newReporter()
	if err != nil {
		return err
	}
	detector, err := analyzer.NewDetector(a.cfg.Rules)
	if err != nil {
		return err
	}

	f := fetcher.New(a.cfg.Crawler.Timeout)
	defer f.Close()

	c := crawler.New(f,
		crawler.WithUserAgent(a.cfg.Crawler.UserAgent),
		crawler.WithDelay(a.cfg.Crawler.Delay),
		crawler.WithSitemap(a.cfg.Crawler.UseSitemap),
		crawler.WithMaxPages(a.cfg.Crawler.MaxPages),
		crawler.WithTextMode(extractor.TextMode(a.cfg.Crawler.TextMode)),
		crawler.WithLogger(a.logger),
	)

	result, err := c.Crawl(ctx, base)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	a.logger.Info("crawl finished", "base", base, "pages", len(result.Pages), "duration", result.Duration)

	snap := analyzer.Annotate(base, result, detector)

	store, err := storage.Open(a.cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Append(ctx, base, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	a.logger.Debug("snapshot saved", "id", snap.ID, "store", store.Path())

	histories, err := store.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	history, err := storage.FindSite(histories, base)
	if err != nil {
		return err
	}

	summary, err := reporter.NewSummary(history)
	if err != nil {
		return err
	}
	return rep.WriteSummary(cmd.OutOrStdout(), summary)
}
