package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/storecheck/storecheck/internal/types"
)

// PrintOptions control console output.
type PrintOptions struct {
	NoColor    bool
	Duration   time.Duration
	ReportPath string
	// Verbose adds failure messages under the table.
	Verbose bool
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

func colorStatus(s types.Status, noColor bool) string {
	label := strings.ToUpper(string(s))
	if noColor {
		return label
	}
	switch s {
	case types.StatusPass:
		return passStyle.Render(label)
	case types.StatusFail:
		return failStyle.Render(label)
	case types.StatusSkip:
		return skipStyle.Render(label)
	}
	return label
}

// PrintTable writes results as a table followed by a summary footer.
func PrintTable(w io.Writer, results []types.CaseResult, opts PrintOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No test cases ran")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Status", "Case", "Code", "Time")
		for _, r := range results {
			code := ""
			if r.StatusCode > 0 {
				code = fmt.Sprint(r.StatusCode)
			}
			_ = table.Append([]string{
				colorStatus(r.Status, opts.NoColor),
				r.ID(),
				code,
				fmt.Sprintf("%dms", r.Duration.Milliseconds()),
			})
		}
		_ = table.Render()
	}
	if opts.Verbose {
		printFailures(w, results)
	}
	printFooter(w, results, opts)
}

// PrintText writes one line per case, for logs and non-interactive output.
func PrintText(w io.Writer, results []types.CaseResult, opts PrintOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No test cases ran")
	}
	for _, r := range results {
		fmt.Fprintf(w, "%-4s %s (%dms)\n", colorStatus(r.Status, opts.NoColor), r.ID(), r.Duration.Milliseconds())
	}
	printFailures(w, results)
	printFooter(w, results, opts)
}

func printFailures(w io.Writer, results []types.CaseResult) {
	for _, r := range results {
		if r.Status != types.StatusFail {
			continue
		}
		fmt.Fprintf(w, "\n--- FAIL: %s\n", r.ID())
		for _, line := range strings.Split(r.Message, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
		if r.Request != "" {
			fmt.Fprintf(w, "    request: %s\n", r.Request)
		}
	}
}

func printFooter(w io.Writer, results []types.CaseResult, opts PrintOptions) {
	s := types.Summarize(results)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Cases: %d (passed: %d, failed: %d, skipped: %d)\n", s.Total, s.Passed, s.Failed, s.Skipped)
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Run duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.ReportPath != "" {
		fmt.Fprintf(w, "Report: %s\n", opts.ReportPath)
	}
}

var riskOrder = map[types.Risk]int{
	types.RiskHigh:          0,
	types.RiskMedium:        1,
	types.RiskLow:           2,
	types.RiskInformational: 3,
}

// PrintAlerts writes scanner alerts as a table, highest risk first.
func PrintAlerts(w io.Writer, alerts []types.Alert, noColor bool) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No alerts")
		return
	}
	sorted := make([]types.Alert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return riskOrder[sorted[i].Risk] < riskOrder[sorted[j].Risk]
	})
	table := tablewriter.NewWriter(w)
	table.Header("Risk", "Alert", "Method", "URL", "Param")
	counts := map[types.Risk]int{}
	for _, a := range sorted {
		counts[a.Risk]++
		_ = table.Append([]string{colorRisk(a.Risk, noColor), a.Name, a.Method, a.URL, a.Param})
	}
	_ = table.Render()
	fmt.Fprintf(w, "\nAlerts: %d (high: %d, medium: %d, low: %d, informational: %d)\n",
		len(alerts), counts[types.RiskHigh], counts[types.RiskMedium], counts[types.RiskLow], counts[types.RiskInformational])
}

func colorRisk(r types.Risk, noColor bool) string {
	if noColor {
		return string(r)
	}
	switch r {
	case types.RiskHigh:
		return failStyle.Render(string(r))
	case types.RiskMedium:
		return skipStyle.Render(string(r))
	}
	return string(r)
}
