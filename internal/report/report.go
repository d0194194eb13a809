package report

import (
	"os"
	"os/user"
	"runtime"
	"sync"
	"time"

	"github.com/storecheck/storecheck/internal/types"
)

// Options configure the HTML report header.
type Options struct {
	DocumentTitle string
	ReportName    string
	Theme         string // "dark" (default) or "light"
	// SystemInfo is shown as a key/value table, in insertion order.
	SystemInfo []KV
}

// KV is an ordered key/value pair.
type KV struct {
	Key   string
	Value string
}

// DefaultSystemInfo describes the machine running the tests.
func DefaultSystemInfo(application, environment, tester string) []KV {
	info := []KV{
		{"Application", application},
		{"Operating System", runtime.GOOS + "/" + runtime.GOARCH},
	}
	if u, err := user.Current(); err == nil {
		info = append(info, KV{"User Name", u.Username})
	}
	if h, err := os.Hostname(); err == nil {
		info = append(info, KV{"HostName", h})
	}
	if environment != "" {
		info = append(info, KV{"Environment", environment})
	}
	if tester != "" {
		info = append(info, KV{"Tester", tester})
	}
	return info
}

// Report collects suites and cases for one run. All methods are safe for
// concurrent use.
type Report struct {
	opts    Options
	created time.Time

	mu     sync.Mutex
	suites []*SuiteNode
}

// SuiteNode groups the cases of one suite.
type SuiteNode struct {
	report *Report
	Name   string
	Start  time.Time
	End    time.Time

	infos []string
	tests []*TestNode
}

// TestNode is the report entry for one case.
type TestNode struct {
	report   *Report
	Name     string
	Group    string
	Status   types.Status
	Start    time.Time
	Duration time.Duration
	Request  string
	Response string

	events []Event
}

// Event is a single line in a test node's log.
type Event struct {
	Time    time.Time
	Status  string // pass|fail|skip|info
	Message string
}

// New creates an empty report.
func New(opts Options) *Report {
	if opts.DocumentTitle == "" {
		opts.DocumentTitle = "storecheck"
	}
	if opts.ReportName == "" {
		opts.ReportName = "Test Execution Summary"
	}
	if opts.Theme != "light" {
		opts.Theme = "dark"
	}
	return &Report{opts: opts, created: time.Now()}
}

// SetSystemInfo adds or replaces one system info entry.
func (r *Report) SetSystemInfo(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.opts.SystemInfo {
		if r.opts.SystemInfo[i].Key == key {
			r.opts.SystemInfo[i].Value = value
			return
		}
	}
	r.opts.SystemInfo = append(r.opts.SystemInfo, KV{key, value})
}

// Suite starts a suite node.
func (r *Report) Suite(name string) *SuiteNode {
	s := &SuiteNode{report: r, Name: name, Start: time.Now()}
	r.mu.Lock()
	r.suites = append(r.suites, s)
	r.mu.Unlock()
	s.Info("Suite Started: " + name)
	return s
}

// Info appends a line to the suite log.
func (s *SuiteNode) Info(msg string) {
	s.report.mu.Lock()
	defer s.report.mu.Unlock()
	s.infos = append(s.infos, msg)
}

// Case starts a test node under the suite.
func (s *SuiteNode) Case(name, group string) *TestNode {
	t := &TestNode{report: s.report, Name: name, Group: group, Start: time.Now()}
	s.report.mu.Lock()
	s.tests = append(s.tests, t)
	s.report.mu.Unlock()
	return t
}

// Finish closes the suite with its totals.
func (s *SuiteNode) Finish(sum types.RunSummary) {
	s.report.mu.Lock()
	s.End = time.Now()
	s.report.mu.Unlock()
	s.Info("Suite Finished: " + s.Name)
	s.Info("Passed: " + itoa(sum.Passed))
	s.Info("Failed: " + itoa(sum.Failed))
	s.Info("Skipped: " + itoa(sum.Skipped))
}

func (t *TestNode) log(status, msg string) {
	t.report.mu.Lock()
	defer t.report.mu.Unlock()
	t.events = append(t.events, Event{Time: time.Now(), Status: status, Message: msg})
}

func (t *TestNode) setStatus(s types.Status) {
	t.report.mu.Lock()
	defer t.report.mu.Unlock()
	t.Status = s
}

// Info logs an informational line. TestNode satisfies suite.CaseLog.
func (t *TestNode) Info(msg string) { t.log("info", msg) }

// Pass marks the case passed.
func (t *TestNode) Pass(msg string) {
	t.setStatus(types.StatusPass)
	t.log("pass", msg)
}

// Fail marks the case failed.
func (t *TestNode) Fail(msg string) {
	t.setStatus(types.StatusFail)
	t.log("fail", msg)
}

// Skip marks the case skipped.
func (t *TestNode) Skip(msg string) {
	t.setStatus(types.StatusSkip)
	t.log("skip", msg)
}

// Exchange attaches the last request and response body.
func (t *TestNode) Exchange(request, response string, d time.Duration) {
	t.report.mu.Lock()
	defer t.report.mu.Unlock()
	t.Request = request
	t.Response = response
	t.Duration = d
}

// Totals counts the test nodes by status.
func (r *Report) Totals() types.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s types.RunSummary
	for _, su := range r.suites {
		for _, t := range su.tests {
			s.Total++
			s.Duration += t.Duration
			switch t.Status {
			case types.StatusPass:
				s.Passed++
			case types.StatusFail:
				s.Failed++
			case types.StatusSkip:
				s.Skipped++
			}
		}
	}
	return s
}
