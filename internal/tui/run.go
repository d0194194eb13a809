package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/types"
)

// Options configures the results browser.
type Options struct {
	// Baseline marks known failures with "(b)".
	Baseline *report.Baseline
	// Rerun re-executes the suites when "r" is pressed. Nil disables it.
	Rerun func() ([]types.CaseResult, error)
	// Cached marks the results as loaded from disk at Timestamp.
	Cached    bool
	Timestamp time.Time
	// Root is where the run history is read from.
	Root string
}

// Run starts the results browser and blocks until the user quits.
func Run(results []types.CaseResult, opts Options) error {
	m := NewModel(results, opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
