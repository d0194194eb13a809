package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/types"
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// copyRequestToClipboard copies the last request line of the selected case.
func (m Model) copyRequestToClipboard() tea.Cmd {
	r := m.selected()
	if r == nil {
		return func() tea.Msg { return statusMsg("No case selected") }
	}
	if r.Request == "" {
		return func() tea.Msg { return statusMsg("Case issued no request") }
	}
	if err := clipboardWrite(r.Request); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	req := r.Request
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied: %s", req)) }
}

// copyIDToClipboard copies the selected case id, the form accepted by --run.
func (m Model) copyIDToClipboard() tea.Cmd {
	r := m.selected()
	if r == nil {
		return func() tea.Msg { return statusMsg("No case selected") }
	}
	if err := clipboardWrite(r.ID()); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	id := r.ID()
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied: %s", id)) }
}

// copyCaseToClipboard copies the full case details.
func (m Model) copyCaseToClipboard() tea.Cmd {
	r := m.selected()
	if r == nil {
		return func() tea.Msg { return statusMsg("No case selected") }
	}
	if err := clipboardWrite(caseText(*r)); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg("Copied case details to clipboard") }
}

func caseText(r types.CaseResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Case: %s\n", r.ID())
	fmt.Fprintf(&sb, "Status: %s\n", r.Status)
	if r.Message != "" {
		fmt.Fprintf(&sb, "Reason: %s\n", r.Message)
	}
	if r.Request != "" {
		fmt.Fprintf(&sb, "Request: %s\n", r.Request)
	}
	if r.StatusCode > 0 {
		fmt.Fprintf(&sb, "Status Code: %d\n", r.StatusCode)
	}
	if r.Response != "" {
		fmt.Fprintf(&sb, "\nResponse:\n%s\n", r.Response)
	}
	if len(r.Logs) > 0 {
		fmt.Fprintf(&sb, "\nLog:\n%s\n", strings.Join(r.Logs, "\n"))
	}
	return sb.String()
}

// export writes the visible results to the working directory.
func (m Model) export(format string) tea.Cmd {
	results := make([]types.CaseResult, 0, len(m.display))
	for _, idx := range m.display {
		results = append(results, m.results[idx])
	}
	if len(results) == 0 {
		return func() tea.Msg { return statusMsg("Nothing to export") }
	}
	return func() tea.Msg {
		name, err := writeExport(format, results)
		if err != nil {
			return statusMsg(fmt.Sprintf("Export failed: %v", err))
		}
		return statusMsg(fmt.Sprintf("Exported %d cases to %s", len(results), name))
	}
}

func writeExport(format string, results []types.CaseResult) (string, error) {
	switch format {
	case "junit":
		name := "storecheck-results.xml"
		f, err := os.Create(name)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return name, report.WriteJUnit(f, results)
	case "json":
		name := "storecheck-results.json"
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", err
		}
		return name, os.WriteFile(name, data, 0644)
	}
	return "", fmt.Errorf("unknown export format %q", format)
}
