package storecheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/storecheck/storecheck/internal/cache"
	"github.com/storecheck/storecheck/internal/engine"
	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/tui"
	"github.com/storecheck/storecheck/internal/types"
)

// ErrNoLastRun is returned when no cached run exists for the project.
var ErrNoLastRun = errors.New("no previous run found; run 'storecheck run' first")

func init() {
	var noTUI bool
	results := &cobra.Command{
		Use:   "results",
		Short: "Browse the results of the last run",
		Long:  "Opens the interactive results browser on the last run. Press r inside the browser to run the suites again.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := projectRoot()
			last, err := loadLastRun(root)
			if err != nil {
				return err
			}
			if flagJSON || noTUI || !isInteractive() {
				return printResults(cmd.OutOrStdout(), last.Results, report.PrintOptions{
					NoColor:    noColor(),
					ReportPath: last.ReportPath,
					Verbose:    true,
				})
			}
			fc, err := loadConfig(root)
			if err != nil {
				return err
			}
			base, _ := report.LoadBaseline(DefaultBaselineFile)
			return tui.Run(last.Results, tui.Options{
				Baseline:  &base,
				Cached:    true,
				Timestamp: last.Timestamp,
				Root:      root,
				Rerun: func() ([]types.CaseResult, error) {
					log, err := newLogger(fc)
					if err != nil {
						return nil, err
					}
					defer func() { _ = log.Sync() }()
					res, err := engine.Run(context.Background(), engine.Config{
						Root:     root,
						File:     fc,
						Threads:  flagThreads,
						Baseline: DefaultBaselineFile,
						Log:      log,
					})
					return res.Results, err
				},
			})
		},
	}
	results.Flags().BoolVar(&noTUI, "no-tui", false, "print the table instead of opening the browser")
	rootCmd.AddCommand(results)

	var copyPath bool
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show where the last HTML report was written",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := projectRoot()
			path := ""
			if last, err := loadLastRun(root); err == nil {
				path = last.ReportPath
			}
			if path == "" {
				fc, _ := loadConfig(root)
				dir := pickString(fc.Property("report_dir"), engine.DefaultReportDir)
				p, err := report.LatestHTML(dir)
				if err != nil {
					return fmt.Errorf("no report found in %s: %w", dir, err)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			if copyPath {
				if err := clipboard.WriteAll(path); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(os.Stderr, "Copied report path to clipboard")
			}
			return nil
		},
	}
	reportCmd.Flags().BoolVar(&copyPath, "copy-path", false, "copy the report path to the clipboard")
	rootCmd.AddCommand(reportCmd)
}

func loadLastRun(root string) (cache.RunResults, error) {
	last, err := cache.LoadResults(root)
	if errors.Is(err, fs.ErrNotExist) {
		return last, ErrNoLastRun
	}
	if err != nil {
		return last, fmt.Errorf("load last run: %w", err)
	}
	return last, nil
}
