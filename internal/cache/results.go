// Package cache persists the results of the last run so the results browser
// and the report/baseline commands can work without re-running the suites.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/storecheck/storecheck/internal/types"
)

// RunResults stores the case results and metadata from a run.
type RunResults struct {
	RunID      string             `json:"run_id"`
	Results    []types.CaseResult `json:"results"`
	Timestamp  time.Time          `json:"timestamp"`
	Target     string             `json:"target"`
	ReportPath string             `json:"report_path,omitempty"`
	Summary    types.RunSummary   `json:"summary"`
}

// ResultsPath is where the last run is stored for root.
func ResultsPath(root string) string {
	// Store in .git directory or project root
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "storecheck_last_run.json")
	}
	return filepath.Join(root, ".storecheck_last_run.json")
}

// SaveResults saves a run, replacing the previous one.
func SaveResults(root string, run RunResults) error {
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	run.Summary = types.Summarize(run.Results)
	b, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ResultsPath(root), b, 0644)
}

// LoadResults loads the last run.
func LoadResults(root string) (RunResults, error) {
	var run RunResults
	f, err := os.ReadFile(ResultsPath(root))
	if err != nil {
		return run, err
	}
	if err := json.Unmarshal(f, &run); err != nil {
		return run, err
	}
	return run, nil
}
