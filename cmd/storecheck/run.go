package storecheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storecheck/storecheck/internal/engine"
	"github.com/storecheck/storecheck/internal/metrics"
	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/suite"
	"github.com/storecheck/storecheck/internal/types"
)

// DefaultBaselineFile holds the known failures used by --fail-on new.
const DefaultBaselineFile = "storecheck.baseline.json"

var (
	flagRun          string
	flagSkip         string
	flagData         string
	flagReportDir    string
	flagNoReport     bool
	flagTheme        string
	flagJUnit        string
	flagMetricsAddr  string
	flagMetricsFile  string
	flagBaseline     string
	flagFailOn       string
	flagUploadURL    string
	flagUploadToken  string
	flagNoUploadMeta bool
	flagOffline      bool
	flagSeed         int64
	flagCaseTimeout  time.Duration
	flagText         bool
	flagNoCache      bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the API test suites",
		Example: `  storecheck run
  storecheck run --run products --threads 4
  storecheck run --run 'login/*' --skip login/valid-user
  storecheck run --data testdata/Product.csv --junit results.xml
  storecheck run --offline --fail-on new`,
		RunE: runRun,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagRun, "run", "", "comma-separated suite/name globs to run (default all)")
	cmd.Flags().StringVar(&flagSkip, "skip", "", "comma-separated suite/name globs to skip")
	cmd.Flags().StringVar(&flagData, "data", "", "data file (.json, .csv, .xlsx) for the datadriven suite")
	cmd.Flags().StringVar(&flagReportDir, "report-dir", "", "directory for the HTML report (default reports)")
	cmd.Flags().BoolVar(&flagNoReport, "no-report", false, "do not write the HTML report")
	cmd.Flags().StringVar(&flagTheme, "theme", "dark", "HTML report theme: dark|light")
	cmd.Flags().StringVar(&flagJUnit, "junit", "", "also write JUnit XML to this file")
	cmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run (e.g. :9090)")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "write metrics in text exposition format to this file after the run")
	cmd.Flags().StringVar(&flagBaseline, "baseline", DefaultBaselineFile, "baseline of known failures")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "any", "exit non-zero on: any|new|none")
	cmd.Flags().StringVar(&flagUploadURL, "upload", "", "POST results (JSON) to this URL after the run")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-metadata", false, "do not include repo/commit/branch in upload envelope")
	cmd.Flags().BoolVar(&flagOffline, "offline", false, "run against a built-in FakeStore double instead of the live service")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "seed for generated payloads (0 = random)")
	cmd.Flags().DurationVar(&flagCaseTimeout, "case-timeout", 0, "per-case timeout (0 = none)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "do not save the last run or append to history")
}

func runRun(cmd *cobra.Command, _ []string) error {
	switch flagFailOn {
	case "any", "new", "none":
	default:
		return fmt.Errorf("invalid --fail-on %q: want any|new|none", flagFailOn)
	}

	root := projectRoot()
	fc, err := loadConfig(root)
	if err != nil {
		return err
	}
	if updateBanner() {
		return nil
	}

	log, err := newLogger(fc)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m := metrics.New()
	if flagMetricsAddr != "" {
		mctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := m.Serve(mctx, flagMetricsAddr); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	cfg := engine.Config{
		Root:      root,
		File:      fc,
		Run:       suite.SplitPatterns(flagRun),
		Skip:      suite.SplitPatterns(flagSkip),
		DataFile:  pickString(flagData, fc.Property("data_file")),
		Threads:   pickInt(flagThreads, fc.IntProperty("threads")),
		Timeout:   flagCaseTimeout,
		Seed:      flagSeed,
		Offline:   flagOffline,
		ReportDir: pickString(flagReportDir, fc.Property("report_dir")),
		NoReport:  flagNoReport,
		Theme:     flagTheme,
		NoCache:   flagNoCache,
		Baseline:  flagBaseline,
		Log:       log,
		Metrics:   m,
	}

	var done atomic.Int32
	if isInteractive() {
		_, _ = fmt.Fprintln(os.Stderr, "Running FakeStore API suites...")
		cfg.Progress = func(r types.CaseResult) {
			n := done.Add(1)
			_, _ = fmt.Fprintf(os.Stderr, "\r[%d] %-40s", n, r.ID())
		}
	}

	res, err := engine.Run(ctx, cfg)
	if done.Load() > 0 {
		_, _ = fmt.Fprintln(os.Stderr)
	}
	if errors.Is(err, engine.ErrNoCases) {
		return fmt.Errorf("%w (check --run/--skip)", err)
	}
	if err != nil {
		return fmt.Errorf("run error: %w", err)
	}

	if err := printResults(cmd.OutOrStdout(), res.Results, report.PrintOptions{
		NoColor:    noColor(),
		Duration:   res.Duration,
		ReportPath: res.ReportPath,
		Verbose:    true,
	}); err != nil {
		return err
	}

	if flagJUnit != "" {
		if err := writeJUnitFile(flagJUnit, res.Results); err != nil {
			return fmt.Errorf("junit: %w", err)
		}
	}
	if flagMetricsFile != "" {
		if err := writeMetricsFile(flagMetricsFile, m); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	// Upload failures do not fail the run
	if flagUploadURL != "" {
		if err := uploadResults(root, flagUploadURL, flagUploadToken, flagNoUploadMeta, res); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "upload warning:", err)
		}
	}

	base, _ := report.LoadBaseline(flagBaseline)
	if report.ShouldFail(res.Results, flagFailOn, base) {
		osExit(1)
	}
	return nil
}

func printResults(w io.Writer, results []types.CaseResult, opts report.PrintOptions) error {
	switch {
	case flagJSON:
		if results == nil {
			results = []types.CaseResult{}
		}
		return writeJSON(w, results)
	case flagText:
		report.PrintText(w, results, opts)
	default:
		report.PrintTable(w, results, opts)
	}
	return nil
}

func writeJUnitFile(path string, results []types.CaseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJUnit(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeMetricsFile(path string, m *metrics.Collector) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteText(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
