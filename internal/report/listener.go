package report

import (
	"fmt"
	"sync"

	"github.com/storecheck/storecheck/internal/suite"
	"github.com/storecheck/storecheck/internal/types"
)

// Listener feeds runner events into a Report.
type Listener struct {
	Report *Report

	mu     sync.Mutex
	suites map[string]*SuiteNode
}

var _ suite.Listener = (*Listener)(nil)

// NewListener returns a listener writing to r.
func NewListener(r *Report) *Listener {
	return &Listener{Report: r, suites: map[string]*SuiteNode{}}
}

func (l *Listener) suite(name string) *SuiteNode {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.suites[name]
	if !ok {
		s = l.Report.Suite(name)
		l.suites[name] = s
	}
	return s
}

// SuiteStarted creates the suite node.
func (l *Listener) SuiteStarted(name string, cases int) {
	l.suite(name).Info(fmt.Sprintf("Cases: %d", cases))
}

// CaseStarted returns the case's own node; the runner passes it back on finish.
func (l *Listener) CaseStarted(c suite.Case) suite.CaseLog {
	return l.suite(c.Suite).Case(c.Name, c.Group)
}

// CaseFinished records the outcome on the node returned by CaseStarted.
func (l *Listener) CaseFinished(c suite.Case, log suite.CaseLog, r types.CaseResult) {
	node, ok := log.(*TestNode)
	if !ok {
		node = l.suite(c.Suite).Case(c.Name, c.Group)
	}
	node.Exchange(r.Request, r.Response, r.Duration)
	switch r.Status {
	case types.StatusPass:
		node.Pass(c.Name + " Passed.")
	case types.StatusFail:
		node.Fail(c.Name + " Failed.")
		node.Fail(r.Message)
	case types.StatusSkip:
		node.Skip(c.Name + " Skipped.")
		node.Info("Reason: " + r.Message)
	}
	node.Info(fmt.Sprintf("Execution Time: %d ms", r.Duration.Milliseconds()))
}

// SuiteFinished writes the suite totals.
func (l *Listener) SuiteFinished(name string, sum types.RunSummary) {
	l.suite(name).Finish(sum)
}
