package tui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/storecheck/storecheck/internal/audit"
	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Sort columns.
const (
	SortDefault  = ""
	SortStatus   = "status"
	SortDuration = "duration"
	SortSuite    = "suite"
)

const defaultHelp = "q: quit | ?: help | j/k: navigate | /: search | f: failures | c: copy request | r: rerun"

// statusText returns plain text for a status (ANSI codes break table truncation).
func statusText(s types.Status) string {
	switch s {
	case types.StatusPass:
		return "PASS"
	case types.StatusFail:
		return "FAIL"
	case types.StatusSkip:
		return "SKIP"
	default:
		return strings.ToUpper(string(s))
	}
}

func statusRank(s types.Status) int {
	switch s {
	case types.StatusFail:
		return 0
	case types.StatusSkip:
		return 1
	case types.StatusPass:
		return 2
	}
	return 3
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

type statusMsg string

type resultsMsg []types.CaseResult

// Model is the state of the results browser.
type Model struct {
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model

	results  []types.CaseResult
	display  []int // indices into results, after filter and sort
	baseline *report.Baseline
	rerun    func() ([]types.CaseResult, error)
	prefs    Prefs
	root     string

	quitting      bool
	ready         bool
	running       bool
	viewingCached bool
	lastRunTime   time.Time
	height        int
	width         int
	statusMessage string
	statusTimeout *time.Time
	showHelp      bool

	showHistory      bool
	history          []audit.RunRecord
	historySelection int

	searchMode   bool
	searchInput  textinput.Model
	searchQuery  string
	statusFilter types.Status

	sortColumn  string
	sortReverse bool
}

// NewModel initializes the browser over results.
func NewModel(results []types.CaseResult, opts Options) Model {
	columns := []table.Column{
		{Title: "Status", Width: 8},
		{Title: "Suite", Width: 14},
		{Title: "Case", Width: 28},
		{Title: "Code", Width: 6},
		{Title: "Time", Width: 8},
		{Title: "Message", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search suite, case, or message..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	root := opts.Root
	if root == "" {
		root = "."
	}
	m := Model{
		table:         t,
		spinner:       sp,
		results:       results,
		baseline:      opts.Baseline,
		rerun:         opts.Rerun,
		prefs:         LoadPrefs(),
		root:          root,
		viewingCached: opts.Cached,
		lastRunTime:   time.Now(),
		searchInput:   ti,
		statusMessage: defaultHelp,
	}
	if opts.Cached && !opts.Timestamp.IsZero() {
		m.lastRunTime = opts.Timestamp
	}
	m.applyFilters()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) rerunCmd() tea.Cmd {
	rerun := m.rerun
	return func() tea.Msg {
		if rerun == nil {
			return statusMsg("Rerun not available")
		}
		results, err := rerun()
		if err != nil {
			return statusMsg(fmt.Sprintf("Run error: %v", err))
		}
		return resultsMsg(results)
	}
}

func (m *Model) isBaselined(r types.CaseResult) bool {
	return m.baseline != nil && m.baseline.Contains(r)
}

// applyFilters recomputes the visible rows from the search query, status
// filter and sort order.
func (m *Model) applyFilters() {
	q := strings.ToLower(m.searchQuery)
	m.display = make([]int, 0, len(m.results))
	for i, r := range m.results {
		if m.statusFilter != "" && r.Status != m.statusFilter {
			continue
		}
		if q != "" {
			hay := strings.ToLower(r.Suite + " " + r.Name + " " + r.Group + " " + r.Message)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		m.display = append(m.display, i)
	}
	m.sortDisplay()
	m.rebuildTableRows()
}

func (m *Model) clearFilters() {
	m.searchQuery = ""
	m.searchInput.SetValue("")
	m.statusFilter = ""
	m.applyFilters()
}

func (m *Model) sortDisplay() {
	if m.sortColumn == SortDefault {
		if m.sortReverse {
			for i, j := 0, len(m.display)-1; i < j; i, j = i+1, j-1 {
				m.display[i], m.display[j] = m.display[j], m.display[i]
			}
		}
		return
	}
	less := func(a, b types.CaseResult) bool {
		switch m.sortColumn {
		case SortStatus:
			return statusRank(a.Status) < statusRank(b.Status)
		case SortDuration:
			return a.Duration > b.Duration
		case SortSuite:
			return a.ID() < b.ID()
		}
		return false
	}
	sort.SliceStable(m.display, func(i, j int) bool {
		a, b := m.results[m.display[i]], m.results[m.display[j]]
		if m.sortReverse {
			return less(b, a)
		}
		return less(a, b)
	})
}

func (m *Model) cycleSortColumn() {
	switch m.sortColumn {
	case SortDefault:
		m.sortColumn = SortStatus
	case SortStatus:
		m.sortColumn = SortDuration
	case SortDuration:
		m.sortColumn = SortSuite
	default:
		m.sortColumn = SortDefault
	}
	m.applyFilters()
}

func (m *Model) sortIndicator() string {
	if m.sortColumn == SortDefault && !m.sortReverse {
		return ""
	}
	col := m.sortColumn
	if col == "" {
		col = "run order"
	}
	dir := "asc"
	if m.sortReverse {
		dir = "desc"
	}
	return fmt.Sprintf("  [SORT: %s %s]", col, dir)
}

func (m *Model) rebuildTableRows() {
	rows := make([]table.Row, len(m.display))
	for i, idx := range m.display {
		r := m.results[idx]
		st := statusText(r.Status)
		if m.isBaselined(r) {
			st = "(b) " + st
		}
		code := ""
		if r.StatusCode > 0 {
			code = fmt.Sprintf("%d", r.StatusCode)
		}
		msg := r.Message
		if j := strings.IndexByte(msg, '\n'); j >= 0 {
			msg = msg[:j]
		}
		rows[i] = table.Row{st, r.Suite, r.Name, code, fmt.Sprintf("%dms", r.Duration.Milliseconds()), msg}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// selected returns the result under the cursor.
func (m Model) selected() *types.CaseResult {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.display) {
		return nil
	}
	r := m.results[m.display[c]]
	return &r
}

func (m *Model) setStatus(s string) {
	m.statusMessage = s
	t := time.Now().Add(3 * time.Second)
	m.statusTimeout = &t
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	r := m.selected()
	if r == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.detail(*r))
	m.viewport.GotoTop()
}

// detail renders one result for the detail pane.
func (m *Model) detail(r types.CaseResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.ID()) + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Status:"), styleStatus(r.Status))
	if r.Group != "" {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Group:"), r.Group)
	}
	fmt.Fprintf(&b, "%s %d ms\n", keyStyle.Render("Execution Time:"), r.Duration.Milliseconds())
	if m.isBaselined(r) {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Baseline:"), dimStyle.Render("known failure"))
	}
	if r.Message != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", keyStyle.Render("Reason:"), r.Message)
	}
	if r.Request != "" {
		fmt.Fprintf(&b, "\n%s %s", keyStyle.Render("Request:"), r.Request)
		if r.StatusCode > 0 {
			fmt.Fprintf(&b, " -> %d", r.StatusCode)
		}
		b.WriteString("\n")
	}
	if r.Response != "" {
		body := r.Response
		if m.prefs.PrettyJSON {
			body = highlightBody(body)
		}
		fmt.Fprintf(&b, "\n%s\n%s\n", keyStyle.Render("Response:"), body)
	}
	if m.prefs.ShowLogs && len(r.Logs) > 0 {
		fmt.Fprintf(&b, "\n%s\n", keyStyle.Render("Log:"))
		for _, l := range r.Logs {
			b.WriteString(dimStyle.Render("  "+l) + "\n")
		}
	}
	return b.String()
}

func styleStatus(s types.Status) string {
	switch s {
	case types.StatusFail:
		return failStyle.Render(statusText(s))
	case types.StatusSkip:
		return skipStyle.Render(statusText(s))
	case types.StatusPass:
		return passStyle.Render(statusText(s))
	}
	return statusText(s)
}

// highlightBody pretty-prints and colors a JSON body for the terminal. Other
// bodies are returned unchanged.
func highlightBody(body string) string {
	if !gjson.Valid(body) {
		return body
	}
	src := string(pretty.Pretty([]byte(body)))

	lexer := lexers.Get("json")
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}

func (m *Model) layout() {
	statsHeight, statusHeight := 1, 1
	avail := m.height - statsHeight - statusHeight - 4 // two bordered panes
	if avail < 4 {
		avail = 4
	}
	tableHeight := avail / 2
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(m.width - 2)
	if !m.ready {
		m.viewport = viewport.New(m.width-2, avail-tableHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width - 2
		m.viewport.Height = avail - tableHeight
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.updateViewportContent()
		return m, nil

	case statusMsg:
		m.running = false
		m.setStatus(string(msg))
		return m, nil

	case resultsMsg:
		m.running = false
		m.results = []types.CaseResult(msg)
		m.viewingCached = false
		m.lastRunTime = time.Now()
		m.applyFilters()
		sum := types.Summarize(m.results)
		m.setStatus(fmt.Sprintf("Run complete: %d passed, %d failed, %d skipped", sum.Passed, sum.Failed, sum.Skipped))
		m.updateViewportContent()
		return m, nil

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		if m.statusTimeout != nil && time.Now().After(*m.statusTimeout) {
			m.statusTimeout = nil
			m.statusMessage = defaultHelp
		}
		return m, spinCmd

	case tea.KeyMsg:
		if m.running {
			if msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.showHistory {
			return m.updateHistory(msg)
		}
		if m.searchMode {
			return m.updateSearch(msg)
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	if !m.quitting {
		m.table, cmd = m.table.Update(msg)
	}
	m.updateViewportContent()
	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "a":
		m.showHistory = false
	case "up", "k":
		if m.historySelection > 0 {
			m.historySelection--
		}
	case "down", "j":
		if m.historySelection < len(m.history)-1 {
			m.historySelection++
		}
	case "d", "x", "delete":
		if len(m.history) == 0 {
			return m, nil
		}
		log := audit.NewAuditLog(m.root)
		if err := log.DeleteRecord(m.historySelection); err != nil {
			m.setStatus(fmt.Sprintf("Delete failed: %v", err))
			return m, nil
		}
		m.history, _ = log.LoadHistory()
		if m.historySelection >= len(m.history) {
			m.historySelection = max(len(m.history)-1, 0)
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchQuery = ""
		m.searchInput.SetValue("")
		m.applyFilters()
		m.updateViewportContent()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	m.applyFilters()
	m.updateViewportContent()
	return m, cmd
}

// handleKey processes keys in the main view. handled is false when the key
// should fall through to the table.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit, true
	case "?":
		m.showHelp = true
	case "/":
		m.searchMode = true
		return m, m.searchInput.Focus(), true
	case "f", "1":
		m.toggleStatusFilter(types.StatusFail)
	case "2":
		m.toggleStatusFilter(types.StatusPass)
	case "3":
		m.toggleStatusFilter(types.StatusSkip)
	case "esc":
		m.clearFilters()
	case "s":
		m.cycleSortColumn()
	case "S":
		m.sortReverse = !m.sortReverse
		m.applyFilters()
	case "l":
		m.prefs.ShowLogs = !m.prefs.ShowLogs
		_ = SavePrefs(m.prefs)
	case "p":
		m.prefs.PrettyJSON = !m.prefs.PrettyJSON
		_ = SavePrefs(m.prefs)
	case "c":
		return m, m.copyRequestToClipboard(), true
	case "y":
		return m, m.copyIDToClipboard(), true
	case "Y":
		return m, m.copyCaseToClipboard(), true
	case "e":
		return m, m.export("junit"), true
	case "E":
		return m, m.export("json"), true
	case "r":
		if m.rerun == nil {
			m.setStatus("Rerun not available")
			return m, nil, true
		}
		m.running = true
		return m, tea.Batch(m.spinner.Tick, m.rerunCmd()), true
	case "a":
		history, err := audit.NewAuditLog(m.root).LoadHistory()
		if err != nil {
			history = nil
		}
		m.history = history
		m.historySelection = 0
		m.showHistory = true
	case "down", "j":
		m.table.MoveDown(1)
	case "up", "k":
		m.table.MoveUp(1)
	case "g", "home":
		m.table.GotoTop()
	case "G", "end":
		m.table.GotoBottom()
	default:
		return m, nil, false
	}
	m.updateViewportContent()
	return m, nil, true
}

func (m *Model) toggleStatusFilter(s types.Status) {
	if m.statusFilter == s {
		m.statusFilter = ""
	} else {
		m.statusFilter = s
	}
	m.applyFilters()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	if m.running {
		msgContent := fmt.Sprintf("%s  Running suites...\n\nPlease wait", m.spinner.View())
		box := popupStyle.Width(55).Align(lipgloss.Center).Render(msgContent)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpView())
	}
	if m.showHistory {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.historyView())
	}

	statsHeader := lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 2).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("237")).
		Render(m.statsLine())

	tableRender := tableBorderStyle.
		Width(m.width - 2).
		Render(m.table.View())

	var detailContent string
	if len(m.display) == 0 {
		emptyMsg := "No results to review.\n\nPress 'r' to rerun"
		if len(m.results) > 0 {
			emptyMsg = "No results match filter.\n\nPress 'Esc' to clear filter"
		}
		detailContent = lipgloss.Place(m.width-2, m.viewport.Height, lipgloss.Center, lipgloss.Center, emptyTextStyle.Render(emptyMsg))
	} else {
		detailContent = m.viewport.View()
	}
	detailRender := detailPaneBorderStyle.Width(m.width - 2).Render(detailContent)

	var bottomBar string
	if m.searchMode {
		bottomBar = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("15")).
			Width(m.width).
			Padding(0, 1).
			Render(m.searchInput.View() + fmt.Sprintf(" (%d matches)", len(m.display)))
	} else {
		bottomBar = m.statusBar()
	}

	return lipgloss.JoinVertical(lipgloss.Left, statsHeader, tableRender, detailRender, bottomBar)
}

func (m Model) statsLine() string {
	var pass, fail, skip int
	for _, idx := range m.display {
		switch m.results[idx].Status {
		case types.StatusPass:
			pass++
		case types.StatusFail:
			fail++
		case types.StatusSkip:
			skip++
		}
	}
	var filterInfo string
	if m.searchQuery != "" || m.statusFilter != "" {
		var parts []string
		if m.searchQuery != "" {
			parts = append(parts, fmt.Sprintf("search:'%s'", m.searchQuery))
		}
		if m.statusFilter != "" {
			parts = append(parts, "status:"+statusText(m.statusFilter))
		}
		filterInfo = fmt.Sprintf("  [FILTER: %s]", strings.Join(parts, ", "))
	}
	total := fmt.Sprintf("Total: %-4d", len(m.results))
	if len(m.display) != len(m.results) {
		total = fmt.Sprintf("Showing: %d/%d", len(m.display), len(m.results))
	}
	return fmt.Sprintf("%s  |  %s %-4d  |  %s %-4d  |  %s %-4d%s%s",
		total,
		passStyle.Render("Passed:"), pass,
		failStyle.Render("Failed:"), fail,
		skipStyle.Render("Skipped:"), skip,
		filterInfo, m.sortIndicator())
}

func (m Model) statusBar() string {
	var timeInfo string
	if m.viewingCached {
		timeInfo = fmt.Sprintf("Cached: %s", m.lastRunTime.Format("Jan 2, 15:04"))
	} else if !m.lastRunTime.IsZero() {
		timeInfo = fmt.Sprintf("Ran: %s ago", formatDuration(time.Since(m.lastRunTime)))
	}
	spacer := m.width - 4 - lipgloss.Width(m.statusMessage) - lipgloss.Width(timeInfo)
	if spacer < 1 {
		spacer = 1
	}
	return statusStyle.
		Width(m.width).
		Padding(0, 2).
		Render(m.statusMessage + strings.Repeat(" ", spacer) + timeInfo)
}

func helpView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	row := func(key, desc string) string {
		pad := 12 - len(key)
		if pad < 1 {
			pad = 1
		}
		return "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(key) +
			strings.Repeat(" ", pad) +
			lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render(desc)
	}
	lines := []string{
		title.Render("Keyboard Shortcuts"),
		"",
		section.Render("Navigation"),
		row("j / k", "Move down / up"),
		row("g / G", "First / last row"),
		"",
		section.Render("Search & Filter"),
		row("/", "Search cases"),
		row("f or 1", "Failures only"),
		row("2 / 3", "Passed / skipped only"),
		row("s / S", "Sort / reverse sort"),
		row("Esc", "Clear filters"),
		"",
		section.Render("Detail"),
		row("l", "Toggle case log"),
		row("p", "Toggle pretty JSON"),
		"",
		section.Render("Export & Copy"),
		row("c", "Copy request line"),
		row("y / Y", "Copy case id / details"),
		row("e / E", "Export JUnit / JSON"),
		"",
		section.Render("Other"),
		row("r", "Rerun suites"),
		row("a", "Run history"),
		row("?", "Toggle help"),
		row("q", "Quit"),
		"",
		dimStyle.Italic(true).Render("Press any key to close"),
	}
	return popupStyle.Width(44).Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) historyView() string {
	if len(m.history) == 0 {
		content := dimStyle.Render("No run history found.\n\nRun suites to build history.")
		return popupStyle.Width(70).Padding(2, 4).Render(content)
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("RUN HISTORY"), ""}
	n := min(len(m.history), 10)
	for i := 0; i < n; i++ {
		rec := m.history[i]
		summary := fmt.Sprintf("%s - %d cases (%d failed, %d new) %s",
			rec.Timestamp.Format("Jan 2, 15:04:05"), rec.Total, rec.Failed, rec.NewFailures, rec.Duration)
		style := passStyle
		if rec.NewFailures > 0 {
			style = failStyle
		} else if rec.Failed > 0 {
			style = skipStyle
		}
		if i == m.historySelection {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(lipgloss.Color("232")).
				Background(lipgloss.Color("208")).
				Bold(true).
				Render("  > "+summary))
		} else {
			lines = append(lines, style.Render("    "+summary))
		}
	}
	lines = append(lines, "", dimStyle.Italic(true).Render("d: delete | a: close"))
	return popupStyle.Width(70).Padding(2, 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
