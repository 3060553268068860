package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"NewsDigest/internal/app"
	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "newsdigest",
		Short: "Turn a web page into a structured news digest",
	}
	root.AddCommand(crawlCmd(), serveCmd())
	return root
}

func crawlCmd() *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Fetch, analyze, and summarize one page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)
			application := app.New(cfg, logger)

			report := application.ProcessURL(cmd.Context(), args[0], notify)
			printReport(cmd, report)
			if !report.Success {
				return fmt.Errorf("%s stage failed: %s", report.FailedStage, report.ErrorMessage)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&notify, "notify", false, "push the digest to the configured channel")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the LINE webhook front-end",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.Logging.Level)
			return app.New(cfg, logger).ListenAndServe()
		},
	}
}

func printReport(cmd *cobra.Command, report domain.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "URL:     %s\n", report.URL)
	fmt.Fprintf(out, "Title:   %s\n", report.Title)
	if report.Summary != "" {
		fmt.Fprintf(out, "Summary: %s\n", report.Summary)
	}
	if len(report.Keywords) > 0 {
		fmt.Fprintln(out, "Keywords:")
		for _, kw := range report.Keywords {
			fmt.Fprintf(out, "  %s (%d)\n", kw.Term, kw.Count)
		}
	}
	if len(report.Entities) > 0 {
		fmt.Fprintf(out, "Entities: %v\n", report.Entities)
	}
	if report.TotalTokens > 0 {
		fmt.Fprintf(out, "Tokens:  %d\n", report.TotalTokens)
	}
	if report.FailedStage != "" {
		fmt.Fprintf(out, "Failed:  %s (%s)\n", report.FailedStage, report.ErrorMessage)
	}
}
