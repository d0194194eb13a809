package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/storecheck/storecheck/internal/types"
)

var (
	// ErrEmptyTarget is returned when a scan is requested without a target URL.
	ErrEmptyTarget = errors.New("target URL cannot be empty")
	// ErrEmptyReport is returned when the scanner produced an empty report.
	ErrEmptyReport = errors.New("scanner returned an empty report")
)

// Scanner drives a dynamic application security scanner.
// The only implementation is the OWASP ZAP JSON API client.
type Scanner interface {
	// StartScan starts an active scan of target and returns its id.
	StartScan(ctx context.Context, target string) (string, error)

	// Status returns the progress of scan id in percent (0-100).
	Status(ctx context.Context, id string) (int, error)

	// Wait blocks until scan id reaches 100%, calling onProgress after every
	// poll when it is not nil.
	Wait(ctx context.Context, id string, onProgress func(int)) error

	// HTMLReport returns the scanner's HTML report of all alerts.
	HTMLReport(ctx context.Context) ([]byte, error)

	// XMLReport returns the scanner's XML report of all alerts.
	XMLReport(ctx context.Context) ([]byte, error)

	// Alerts lists alerts raised for URLs under baseURL ("" for all).
	Alerts(ctx context.Context, baseURL string) ([]types.Alert, error)

	// Shutdown stops the scanner process.
	Shutdown(ctx context.Context) error

	// Version returns the scanner version.
	Version(ctx context.Context) (string, error)
}

// StartActiveScan scans target, waits for completion and saves the HTML
// report to reportPath. It returns the scan id.
func StartActiveScan(ctx context.Context, s Scanner, target, reportPath string, onProgress func(int)) (string, error) {
	if strings.TrimSpace(target) == "" {
		return "", ErrEmptyTarget
	}
	id, err := s.StartScan(ctx, target)
	if err != nil {
		return "", fmt.Errorf("start scan: %w", err)
	}
	if err := s.Wait(ctx, id, onProgress); err != nil {
		return id, fmt.Errorf("scan %s: %w", id, err)
	}
	if reportPath == "" {
		return id, nil
	}
	html, err := s.HTMLReport(ctx)
	if err != nil {
		return id, fmt.Errorf("html report: %w", err)
	}
	if err := SaveReport(reportPath, html); err != nil {
		return id, err
	}
	return id, nil
}

// SaveReport writes a report body to path. An empty body is ErrEmptyReport.
func SaveReport(path string, body []byte) error {
	if len(body) == 0 {
		return ErrEmptyReport
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
