package suite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecheck/storecheck/internal/api"
	"github.com/storecheck/storecheck/internal/config"
	"github.com/storecheck/storecheck/internal/data"
	"github.com/storecheck/storecheck/internal/fakestore"
	"github.com/storecheck/storecheck/internal/types"
)

func ptr[T any](v T) *T { return &v }

func testEnv(t *testing.T) (Env, *fakestore.Store) {
	t.Helper()
	srv, store := fakestore.Server()
	t.Cleanup(srv.Close)
	return Env{
		Client: api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}),
		Config: config.FileConfig{
			ProductID: ptr(2),
			Username:  ptr(fakestore.Username),
			Password:  ptr(fakestore.Password),
		},
		Rows: []data.Row{
			{"title": "Lamp", "price": "15", "category": "electronics"},
			{"title": "Ring", "price": "99.5", "category": "jewelery"},
		},
		Seed: 99,
	}, store
}

func byID(results []types.CaseResult) map[string]types.CaseResult {
	m := map[string]types.CaseResult{}
	for _, r := range results {
		m[r.ID()] = r
	}
	return m
}

func TestCatalogue_PassesAgainstFakeStore(t *testing.T) {
	env, _ := testEnv(t)
	r := &Runner{Env: env, Threads: 1, RunID: "run-1"}
	results := r.Run(context.Background(), All(env))

	require.Len(t, results, 14)
	for _, res := range results {
		assert.Equal(t, types.StatusPass, res.Status, "%s: %s", res.ID(), res.Message)
		assert.Equal(t, "run-1", res.RunID)
		assert.NotEmpty(t, res.Request, res.ID())
	}
	assert.Equal(t, "products/get-all", results[0].ID())
	assert.Equal(t, "datadriven/add-product-2", results[len(results)-1].ID())
}

func TestSortedCasesFailOnWrongOrder(t *testing.T) {
	env, store := testEnv(t)
	store.BreakSort = true
	r := &Runner{Env: env}
	results := byID(r.Run(context.Background(), Select(Products(), []string{"products/sorted-*"}, nil)))

	require.Len(t, results, 2)
	desc := results["products/sorted-desc"]
	assert.Equal(t, types.StatusFail, desc.Status)
	assert.Contains(t, desc.Message, "not sorted desc")
	assert.Equal(t, types.StatusFail, results["products/sorted-asc"].Status)
}

func TestValidLoginSkippedWithoutCredentials(t *testing.T) {
	env, _ := testEnv(t)
	env.Config.Username = nil
	r := &Runner{Env: env}
	results := byID(r.Run(context.Background(), Login()))
	assert.Equal(t, types.StatusSkip, results["login/valid-user"].Status)
	assert.Equal(t, types.StatusPass, results["login/invalid-user"].Status)
}

func TestDataDriven_BadRow(t *testing.T) {
	env, _ := testEnv(t)
	r := &Runner{Env: env}
	results := r.Run(context.Background(), DataDriven([]data.Row{{"title": "x", "price": "free"}}))
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "bad data row")
}

func TestRunner_PanicIsFailure(t *testing.T) {
	r := &Runner{}
	results := r.Run(context.Background(), []Case{
		{Suite: "s", Name: "boom", Run: func(context.Context, *T) { panic("kaboom") }},
		{Suite: "s", Name: "ok", Priority: 1, Run: func(context.Context, *T) {}},
	})
	require.Len(t, results, 2)
	assert.Equal(t, types.StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "kaboom")
	assert.Equal(t, types.StatusPass, results[1].Status)
}

func TestRunner_Timeout(t *testing.T) {
	r := &Runner{Timeout: 20 * time.Millisecond}
	results := r.Run(context.Background(), []Case{
		{Suite: "s", Name: "slow", Run: func(ctx context.Context, _ *T) { <-ctx.Done() }},
	})
	assert.Equal(t, types.StatusFail, results[0].Status)
	assert.Contains(t, results[0].Message, "deadline exceeded")
}

func TestRunner_ErrorfContinuesFatalfStops(t *testing.T) {
	var reached bool
	r := &Runner{}
	results := r.Run(context.Background(), []Case{
		{Suite: "s", Name: "multi", Run: func(_ context.Context, t *T) {
			t.Errorf("first")
			t.Errorf("second")
			t.Fatalf("third")
			reached = true
		}},
	})
	assert.False(t, reached)
	assert.Equal(t, "first\nsecond\nthird", results[0].Message)
}

func TestRunner_OrderAndParallelism(t *testing.T) {
	var mu sync.Mutex
	running, peak := 0, 0
	work := func(context.Context, *T) {
		mu.Lock()
		running++
		peak = max(peak, running)
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
	}
	cases := []Case{
		{Suite: "b", Name: "3", Priority: 3, Run: work},
		{Suite: "a", Name: "1", Priority: 1, Run: work},
		{Suite: "b", Name: "1", Priority: 1, Run: work},
		{Suite: "b", Name: "2", Priority: 2, Run: work},
		{Suite: "b", Name: "4", Priority: 4, Run: work},
	}
	r := &Runner{Threads: 2}
	results := r.Run(context.Background(), cases)

	var ids []string
	for _, res := range results {
		ids = append(ids, res.ID())
	}
	assert.Equal(t, []string{"b/1", "b/2", "b/3", "b/4", "a/1"}, ids)
	assert.LessOrEqual(t, peak, 2)
}

type recordingListener struct {
	mu     sync.Mutex
	events []string
	infos  map[string][]string
}

type recLog struct {
	l  *recordingListener
	id string
}

func (r recLog) Info(msg string) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()
	r.l.infos[r.id] = append(r.l.infos[r.id], msg)
}

func (l *recordingListener) SuiteStarted(s string, n int) { l.add("suite-start " + s) }
func (l *recordingListener) CaseStarted(c Case) CaseLog {
	l.add("case-start " + c.ID())
	return recLog{l: l, id: c.ID()}
}
func (l *recordingListener) CaseFinished(c Case, _ CaseLog, r types.CaseResult) {
	l.add("case-end " + c.ID() + " " + string(r.Status))
}
func (l *recordingListener) SuiteFinished(s string, sum types.RunSummary) {
	l.add("suite-end " + s)
}
func (l *recordingListener) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func TestRunner_ListenerEvents(t *testing.T) {
	l := &recordingListener{infos: map[string][]string{}}
	r := &Runner{Listener: l}
	r.Run(context.Background(), []Case{
		{Suite: "s", Name: "a", Run: func(_ context.Context, t *T) { t.Logf("hello %d", 1) }},
	})
	assert.Equal(t, []string{"suite-start s", "case-start s/a", "case-end s/a pass", "suite-end s"}, l.events)
	assert.Equal(t, []string{"hello 1"}, l.infos["s/a"])
}

func TestSelect(t *testing.T) {
	all := All(Env{Rows: []data.Row{{}}})
	ids := func(cs []Case) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.ID())
		}
		return out
	}

	assert.Len(t, Select(all, nil, nil), len(all))
	assert.Equal(t, []string{"login/invalid-user", "login/valid-user"}, ids(Select(all, []string{"login"}, nil)))
	assert.Equal(t, []string{"products/sorted-desc", "products/sorted-asc"}, ids(Select(all, []string{"products/sorted-*"}, nil)))

	got := Select(all, []string{"products"}, []string{"products/add", "products/update", "products/delete"})
	assert.Len(t, got, 7)
	assert.Len(t, Select(all, []string{"**"}, []string{"datadriven"}), 12)
}

func TestSplitPatterns(t *testing.T) {
	assert.Nil(t, SplitPatterns("  "))
	assert.Equal(t, []string{"login", "products/get-*"}, SplitPatterns("login, products/get-*,"))
}
