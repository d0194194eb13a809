package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecheck/storecheck/internal/audit"
	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/types"
)

func sampleResults() []types.CaseResult {
	return []types.CaseResult{
		{Suite: "products", Name: "get-all", Status: types.StatusPass, Duration: 20 * time.Millisecond, StatusCode: 200},
		{Suite: "products", Name: "sorted-desc", Status: types.StatusFail, Message: "id: not sorted desc at index 1 (1 then 2)", Duration: 50 * time.Millisecond, Request: "GET https://fakestoreapi.com/products?sort=desc", Response: `[{"id":1},{"id":2}]`, StatusCode: 200},
		{Suite: "login", Name: "valid-user", Status: types.StatusSkip, Message: "no credentials configured"},
		{Suite: "login", Name: "invalid-user", Status: types.StatusPass, Duration: 5 * time.Millisecond},
	}
}

func newTestModel(t *testing.T, results []types.CaseResult, opts Options) Model {
	t.Helper()
	withPrefsDir(t)
	m := NewModel(results, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestFilterFailures(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	require.Len(t, m.display, 4)

	m = press(m, "f")
	require.Len(t, m.display, 1)
	assert.Equal(t, "sorted-desc", m.selected().Name)

	m = press(m, "f")
	assert.Len(t, m.display, 4, "second press clears the filter")

	m = press(m, "3")
	assert.Len(t, m.display, 1)
	m = press(m, "esc")
	assert.Len(t, m.display, 4)
}

func TestSearch(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "/", "l", "o", "g", "i", "n")
	assert.True(t, m.searchMode)
	assert.Equal(t, "login", m.searchQuery)
	assert.Len(t, m.display, 2)

	m = press(m, "enter")
	assert.False(t, m.searchMode)
	assert.Len(t, m.display, 2, "enter keeps the query")
}

func TestSortByStatus(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "s")
	assert.Equal(t, SortStatus, m.sortColumn)
	assert.Equal(t, types.StatusFail, m.results[m.display[0]].Status)
	assert.Equal(t, types.StatusSkip, m.results[m.display[1]].Status)

	m = press(m, "S")
	assert.Equal(t, types.StatusPass, m.results[m.display[0]].Status)
	assert.Contains(t, m.sortIndicator(), "status desc")
}

func TestSortByDuration(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "s", "s")
	assert.Equal(t, SortDuration, m.sortColumn)
	assert.Equal(t, "sorted-desc", m.results[m.display[0]].Name)
}

func TestNavigationUpdatesDetail(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "j")
	assert.Equal(t, 1, m.table.Cursor())
	view := m.viewport.View()
	assert.Contains(t, view, "products/sorted-desc")
	assert.Contains(t, view, "not sorted desc")

	m = press(m, "G")
	assert.Equal(t, 3, m.table.Cursor())
	m = press(m, "g")
	assert.Equal(t, 0, m.table.Cursor())
}

func TestBaselineMarker(t *testing.T) {
	results := sampleResults()
	report.Stamp(results)
	base := report.Baseline{Items: map[string]bool{}}
	base.Items[results[1].ID()+"|"+results[1].Fingerprint] = true

	m := newTestModel(t, results, Options{Baseline: &base})
	rows := m.table.Rows()
	assert.Equal(t, "(b) FAIL", rows[1][0])
	assert.Equal(t, "PASS", rows[0][0])
}

func TestCopyCase(t *testing.T) {
	var copied string
	old := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = old })

	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "j")
	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg("Copied: products/sorted-desc"), cmd())
	assert.Equal(t, "products/sorted-desc", copied)

	_, cmd = m.Update(key("c"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "GET https://fakestoreapi.com/products?sort=desc", copied)

	_, cmd = m.Update(key("Y"))
	require.NotNil(t, cmd)
	cmd()
	assert.Contains(t, copied, "Reason: id: not sorted desc")
	assert.Contains(t, copied, "Request: GET https://fakestoreapi.com/products?sort=desc")
}

func TestRerun(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{
		Rerun: func() ([]types.CaseResult, error) {
			return []types.CaseResult{{Suite: "products", Name: "get-all", Status: types.StatusPass}}, nil
		},
	})
	next, cmd := m.Update(key("r"))
	m = next.(Model)
	assert.True(t, m.running)
	require.NotNil(t, cmd)

	next, _ = m.Update(resultsMsg(mustRerun(t, m)))
	m = next.(Model)
	assert.False(t, m.running)
	assert.Len(t, m.results, 1)
	assert.Contains(t, m.statusMessage, "1 passed")
}

func mustRerun(t *testing.T, m Model) []types.CaseResult {
	t.Helper()
	msg := m.rerunCmd()()
	res, ok := msg.(resultsMsg)
	require.True(t, ok, "unexpected msg %v", msg)
	return res
}

func TestRerunUnavailable(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "r")
	assert.False(t, m.running)
	assert.Equal(t, "Rerun not available", m.statusMessage)
}

func TestHistoryPopup(t *testing.T) {
	dir := t.TempDir()
	log := audit.NewAuditLog(dir)
	require.NoError(t, log.LogRun(audit.RunRecord{Total: 4, Failed: 1, NewFailures: 1, Duration: "1s"}))
	require.NoError(t, log.LogRun(audit.RunRecord{Total: 4, Duration: "2s"}))

	m := newTestModel(t, sampleResults(), Options{Root: dir})
	m = press(m, "a")
	require.True(t, m.showHistory)
	require.Len(t, m.history, 2)
	assert.Contains(t, m.View(), "RUN HISTORY")

	m = press(m, "j", "d")
	assert.Len(t, m.history, 1)
	m = press(m, "a")
	assert.False(t, m.showHistory)
}

func TestViewEmpty(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	assert.Contains(t, m.View(), "No results to review")
}

func TestViewStats(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{Cached: true, Timestamp: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)})
	v := m.View()
	assert.Contains(t, v, "Total: 4")
	assert.Contains(t, v, "Cached: Jan 2, 15:04")
	assert.True(t, strings.Contains(v, "Passed:"))
}

func TestExport(t *testing.T) {
	t.Chdir(t.TempDir())

	m := newTestModel(t, sampleResults(), Options{})
	m = press(m, "f")
	msg := m.export("junit")()
	assert.Equal(t, statusMsg("Exported 1 cases to storecheck-results.xml"), msg)
	data, err := os.ReadFile("storecheck-results.xml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "sorted-desc")
}

func TestHighlightBody(t *testing.T) {
	assert.Equal(t, "plain", highlightBody("plain"))
	out := highlightBody(`{"id":1}`)
	assert.Contains(t, out, "id")
	assert.NotEqual(t, `{"id":1}`, out)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, sampleResults(), Options{})
	next, cmd := m.Update(key("q"))
	assert.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.(Model).View())
}
