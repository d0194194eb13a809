// Package audit keeps an append-only JSONL history of runs.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/storecheck/storecheck/internal/types"
)

// RunRecord is one line of the history log.
type RunRecord struct {
	Timestamp    time.Time     `json:"timestamp"`
	RunID        string        `json:"run_id"`
	Target       string        `json:"target"`
	Total        int           `json:"total"`
	Passed       int           `json:"passed"`
	Failed       int           `json:"failed"`
	Skipped      int           `json:"skipped"`
	NewFailures  int           `json:"new_failures"`
	Duration     string        `json:"duration"`
	ReportPath   string        `json:"report_path,omitempty"`
	BaselineFile string        `json:"baseline_file,omitempty"`
	Failures     []FailSummary `json:"failures,omitempty"`
}

// FailSummary names a failed case.
type FailSummary struct {
	Case        string `json:"case"`
	Message     string `json:"message"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// AuditLog is the history file of a project.
type AuditLog struct {
	logPath string
}

// NewAuditLog opens the log for root, stored under .git when present.
func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".storecheck_history.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "storecheck_history.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns the records newest first. Undecodable lines are
// skipped; a missing log is an empty history.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var record RunRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// LogRun appends record, assigning a run id when it has none.
func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = uuid.NewString()
	}

	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write history record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record at index in LoadHistory order.
func (a *AuditLog) DeleteRecord(index int) error {
	records, err := a.LoadHistory()
	if err != nil {
		return err
	}

	if index < 0 || index >= len(records) {
		return fmt.Errorf("invalid index: %d", index)
	}

	records = append(records[:index], records[index+1:]...)

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	f, err := os.Create(a.logPath)
	if err != nil {
		return fmt.Errorf("failed to create history: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("failed to write history record: %w", err)
		}
	}
	return nil
}

// CreateRunRecord summarises a run. newFailures are the failures not covered
// by the baseline (all failures when there is none).
func CreateRunRecord(
	runID string,
	target string,
	results []types.CaseResult,
	newFailures []types.CaseResult,
	duration time.Duration,
	reportPath string,
	baselineFile string,
) RunRecord {
	sum := types.Summarize(results)
	var failures []FailSummary
	for _, r := range results {
		if r.Status != types.StatusFail {
			continue
		}
		failures = append(failures, FailSummary{
			Case:        r.ID(),
			Message:     r.Message,
			Fingerprint: r.Fingerprint,
		})
	}
	return RunRecord{
		Timestamp:    time.Now(),
		RunID:        runID,
		Target:       target,
		Total:        sum.Total,
		Passed:       sum.Passed,
		Failed:       sum.Failed,
		Skipped:      sum.Skipped,
		NewFailures:  len(newFailures),
		Duration:     duration.String(),
		ReportPath:   reportPath,
		BaselineFile: baselineFile,
		Failures:     failures,
	}
}
