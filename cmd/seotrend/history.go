package main

import (
	"github.com/spf13/cobra"

	"github.com/amosWeiskopf/seotrend/pkg/crawler"
	"github.com/amosWeiskopf/seotrend/pkg/reporter"
)

func (a *app) newInconsistencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inconsistency-history [URL]",
		Short: "List pages of the latest snapshot with data inconsistencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inconsistencies(cmd, args[0])
		},
	}
	addFormatFlag(cmd, &a.format)
	return cmd
}

func (a *app) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [URL]",
		Short: "Summarize the latest stored snapshot without crawling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, args[0])
		},
	}
	addFormatFlag(cmd, &a.format)
	return cmd
}

func (a *app) inconsistencies(cmd *cobra.Command, rawURL string) error {
	base, err := crawler.ParseBaseURL(rawURL)
	if err != nil {
		return err
	}
	rep, err := a.newReporter()
	if err != nil {
		return err
	}

	history, err := a.history(cmd, base)
	if err != nil {
		return err
	}
	listing, err := reporter.NewInconsistencies(history)
	if err != nil {
		return err
	}
	return rep.WriteInconsistencies(cmd.OutOrStdout(), listing)
}

func (a *app) report(cmd *cobra.Command, rawURL string) error {
	base, err := crawler.ParseBaseURL(rawURL)
	if err != nil {
		return err
	}
	rep, err := a.newReporter()
	if err != nil {
		return err
	}

	history, err := a.history(cmd, base)
	if err != nil {
		return err
	}
	summary, err := reporter.NewSummary(history)
	if err != nil {
		return err
	}
	return rep.WriteSummary(cmd.OutOrStdout(), summary)
}
