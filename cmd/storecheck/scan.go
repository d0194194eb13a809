package storecheck

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/scanner"
	"github.com/storecheck/storecheck/internal/scanner/factory"
)

var (
	flagScanTarget   string
	flagScanReport   string
	flagScanXML      string
	flagScanSARIF    string
	flagScanDaemon   bool
	flagScanShutdown bool
	flagScanZAPURL   string
	flagScanTimeout  time.Duration
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run an OWASP ZAP active scan against the API",
		Example: `  storecheck scan
  storecheck scan --start-daemon --shutdown
  storecheck scan --target https://fakestoreapi.com/products --sarif zap.sarif`,
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagScanTarget, "target", "", "URL to scan (default base_url)")
	cmd.Flags().StringVar(&flagScanReport, "report", "", "HTML report path (default zap.report or zap-report.html)")
	cmd.Flags().StringVar(&flagScanXML, "xml", "", "also save ZAP's XML report to this file")
	cmd.Flags().StringVar(&flagScanSARIF, "sarif", "", "also write the alerts as SARIF to this file")
	cmd.Flags().BoolVar(&flagScanDaemon, "start-daemon", false, "launch ZAP in daemon mode before scanning")
	cmd.Flags().BoolVar(&flagScanShutdown, "shutdown", false, "shut ZAP down after the scan")
	cmd.Flags().StringVar(&flagScanZAPURL, "zap-url", "", "ZAP API URL (overrides zap.address and zap.port)")
	cmd.Flags().DurationVar(&flagScanTimeout, "scan-timeout", time.Hour, "give up when the scan takes longer than this")
}

func runScan(cmd *cobra.Command, _ []string) error {
	root := projectRoot()
	fc, err := loadConfig(root)
	if err != nil {
		return err
	}
	log, err := newLogger(fc)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagScanTimeout)
	defer cancel()

	target := pickString(flagScanTarget, fc.Property("base_url"))
	zc := fc.GetZAPConfig()
	reportPath := pickString(flagScanReport, zc.GetReport())
	fcfg := factory.Config{
		ZAP:     zc,
		Timeout: fc.TimeoutOr(30 * time.Second),
		Log:     log,
		BaseURL: flagScanZAPURL,
	}

	var s scanner.Scanner
	if flagScanDaemon {
		d, err := factory.NewDaemon(fcfg)
		if err != nil {
			return fmt.Errorf("zap daemon: %w", err)
		}
		client, err := d.Start(ctx)
		if err != nil {
			return err
		}
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer scancel()
			if err := d.Stop(sctx, client); err != nil {
				log.Warn("stop zap daemon", zap.Error(err))
			}
		}()
		s = client
	} else {
		if s, err = factory.New(fcfg); err != nil {
			return err
		}
		if flagScanShutdown {
			defer func() {
				if err := s.Shutdown(context.Background()); err != nil {
					log.Warn("zap shutdown", zap.Error(err))
				}
			}()
		}
	}

	var onProgress func(int)
	if isInteractive() {
		onProgress = func(p int) { _, _ = fmt.Fprintf(os.Stderr, "\rActive scan progress: %3d%%", p) }
	}
	id, err := scanner.StartActiveScan(ctx, s, target, reportPath, onProgress)
	if onProgress != nil {
		_, _ = fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}
	log.Info("active scan finished", zap.String("scan_id", id), zap.String("target", target))

	if flagScanXML != "" {
		body, err := s.XMLReport(ctx)
		if err != nil {
			return fmt.Errorf("xml report: %w", err)
		}
		if err := scanner.SaveReport(flagScanXML, body); err != nil {
			return err
		}
	}

	alerts, err := s.Alerts(ctx, target)
	if err != nil {
		return fmt.Errorf("alerts: %w", err)
	}
	if flagScanSARIF != "" {
		v, _ := s.Version(ctx)
		f, err := os.Create(flagScanSARIF)
		if err != nil {
			return err
		}
		if err := report.WriteSARIF(f, alerts, v); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(out, alerts)
	}
	report.PrintAlerts(out, alerts, noColor())
	fmt.Fprintf(out, "Scan %s finished. HTML report: %s\n", id, reportPath)
	return nil
}
