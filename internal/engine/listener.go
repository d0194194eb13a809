package engine

import (
	"github.com/storecheck/storecheck/internal/metrics"
	"github.com/storecheck/storecheck/internal/suite"
	"github.com/storecheck/storecheck/internal/types"
)

// listener forwards runner events to the report and records case metrics.
type listener struct {
	inner    suite.Listener
	metrics  *metrics.Collector
	progress func(types.CaseResult)
}

var _ suite.Listener = (*listener)(nil)

func (l *listener) SuiteStarted(name string, cases int) { l.inner.SuiteStarted(name, cases) }

func (l *listener) CaseStarted(c suite.Case) suite.CaseLog { return l.inner.CaseStarted(c) }

func (l *listener) CaseFinished(c suite.Case, log suite.CaseLog, r types.CaseResult) {
	l.inner.CaseFinished(c, log, r)
	if l.metrics != nil {
		l.metrics.ObserveCase(c.Suite, string(r.Status))
	}
	if l.progress != nil {
		l.progress(r)
	}
}

func (l *listener) SuiteFinished(name string, sum types.RunSummary) {
	l.inner.SuiteFinished(name, sum)
}
