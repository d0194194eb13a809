package suite

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/storecheck/storecheck/internal/payload"
	"github.com/storecheck/storecheck/internal/types"
)

// Listener observes a run. Methods for cases of the same suite may be called
// concurrently when the runner has more than one thread.
type Listener interface {
	SuiteStarted(suite string, cases int)
	CaseStarted(c Case) CaseLog
	CaseFinished(c Case, log CaseLog, r types.CaseResult)
	SuiteFinished(suite string, summary types.RunSummary)
}

// Runner executes cases.
type Runner struct {
	Env      Env
	Threads  int
	Timeout  time.Duration // per case; 0 means no limit
	Listener Listener
	RunID    string
}

// Run executes cases grouped by suite, in the order suites first appear and
// by ascending priority within a suite. Results come back in that same order
// regardless of Threads.
func (r *Runner) Run(ctx context.Context, cases []Case) []types.CaseResult {
	ordered := slices.Clone(cases)
	suiteOrder := map[string]int{}
	for _, c := range ordered {
		if _, ok := suiteOrder[c.Suite]; !ok {
			suiteOrder[c.Suite] = len(suiteOrder)
		}
	}
	slices.SortStableFunc(ordered, func(a, b Case) int {
		return cmp.Or(
			cmp.Compare(suiteOrder[a.Suite], suiteOrder[b.Suite]),
			cmp.Compare(a.Priority, b.Priority),
		)
	})

	results := make([]types.CaseResult, len(ordered))
	for start := 0; start < len(ordered); {
		end := start
		for end < len(ordered) && ordered[end].Suite == ordered[start].Suite {
			end++
		}
		r.runSuite(ctx, ordered[start:end], results[start:end])
		start = end
	}
	return results
}

func (r *Runner) runSuite(ctx context.Context, cases []Case, out []types.CaseResult) {
	name := cases[0].Suite
	if r.Listener != nil {
		r.Listener.SuiteStarted(name, len(cases))
	}

	if r.Threads <= 1 {
		for i, c := range cases {
			out[i] = r.runCase(ctx, c, i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.Threads)
		for i, c := range cases {
			g.Go(func() error {
				out[i] = r.runCase(gctx, c, i)
				return nil
			})
		}
		_ = g.Wait()
	}

	if r.Listener != nil {
		r.Listener.SuiteFinished(name, types.Summarize(out))
	}
}

func (r *Runner) log() *zap.Logger {
	if r.Env.Log == nil {
		return zap.NewNop()
	}
	return r.Env.Log
}

func (r *Runner) runCase(ctx context.Context, c Case, idx int) types.CaseResult {
	var clog CaseLog = nopLog{}
	if r.Listener != nil {
		if l := r.Listener.CaseStarted(c); l != nil {
			clog = l
		}
	}

	seed := r.Env.Seed
	if seed != 0 {
		seed += int64(idx)
	}
	t := &T{
		Client: r.Env.Client,
		Config: r.Env.Config,
		Faker:  payload.New(seed),
		Log:    r.log().With(zap.String("case", c.ID())),
		out:    clog,
	}

	res := types.CaseResult{
		RunID:    r.RunID,
		Suite:    c.Suite,
		Name:     c.Name,
		Group:    c.Group,
		Priority: c.Priority,
		Started:  time.Now(),
	}

	caseCtx := ctx
	cancel := func() {}
	if r.Timeout > 0 {
		caseCtx, cancel = context.WithTimeout(ctx, r.Timeout)
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.run(caseCtx, c.Run)
	}()
	select {
	case <-done:
	case <-caseCtx.Done():
	}
	if err := caseCtx.Err(); err != nil {
		t.Errorf("%v", err)
	}
	res.Duration = time.Since(res.Started)

	t.mu.Lock()
	skipped := t.skipped
	last := t.last
	res.Logs = slices.Clone(t.logs)
	t.mu.Unlock()

	switch {
	case t.Failed():
		res.Status = types.StatusFail
		res.Message = t.message()
	case skipped != "":
		res.Status = types.StatusSkip
		res.Message = skipped
	default:
		res.Status = types.StatusPass
	}
	if last != nil {
		res.Request = last.RequestLine()
		res.Response = string(last.Body)
		res.StatusCode = last.StatusCode
	}

	t.Log.Info("case finished",
		zap.String("status", string(res.Status)),
		zap.Duration("duration", res.Duration),
		zap.String("message", res.Message),
	)
	if r.Listener != nil {
		r.Listener.CaseFinished(c, clog, res)
	}
	return res
}

// String is used in logs.
func (c Case) String() string { return fmt.Sprintf("%s (priority %d)", c.ID(), c.Priority) }
