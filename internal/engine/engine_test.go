package engine

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecheck/storecheck/internal/audit"
	"github.com/storecheck/storecheck/internal/cache"
	"github.com/storecheck/storecheck/internal/metrics"
	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/types"
)

func TestRun_Offline(t *testing.T) {
	root := t.TempDir()
	m := metrics.New()
	var seen atomic.Int32

	res, err := Run(context.Background(), Config{
		Root:      root,
		DataFile:  filepath.Join("..", "data", "testdata", "products.json"),
		Threads:   4,
		Seed:      7,
		Offline:   true,
		ReportDir: filepath.Join(root, "reports"),
		Metrics:   m,
		Progress:  func(types.CaseResult) { seen.Add(1) },
	})
	require.NoError(t, err)

	require.Len(t, res.Results, 14)
	for _, r := range res.Results {
		assert.Equal(t, types.StatusPass, r.Status, "%s: %s", r.ID(), r.Message)
	}
	assert.Equal(t, 14, res.Summary.Passed)
	assert.Empty(t, res.NewFailures)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, int32(14), seen.Load())

	_, err = os.Stat(res.ReportPath)
	require.NoError(t, err, "report written")
	assert.Equal(t, filepath.Join(root, "reports"), filepath.Dir(res.ReportPath))

	last, err := cache.LoadResults(root)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, last.RunID)
	assert.Len(t, last.Results, 14)

	history, err := audit.NewAuditLog(root).LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.RunID, history[0].RunID)
	assert.Equal(t, 14, history[0].Passed)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `storecheck_cases_total{status="pass",suite="products"} 10`)
}

func TestRun_SelectAndNoCache(t *testing.T) {
	root := t.TempDir()
	res, err := Run(context.Background(), Config{
		Root:     root,
		Run:      []string{"products"},
		Skip:     []string{"products/delete", "products/add"},
		Offline:  true,
		NoReport: true,
		NoCache:  true,
	})
	require.NoError(t, err)
	assert.Len(t, res.Results, 8)
	assert.Empty(t, res.ReportPath)

	_, err = cache.LoadResults(root)
	assert.Error(t, err, "nothing cached with NoCache")
}

func TestRun_NoCases(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Root:    t.TempDir(),
		Run:     []string{"nope/*"},
		Offline: true,
		NoCache: true,
	})
	assert.ErrorIs(t, err, ErrNoCases)
}

func TestRun_BadDataFile(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Root:     t.TempDir(),
		DataFile: "missing.json",
		Offline:  true,
		NoCache:  true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load data file")
}

func TestCases_ConfigFilters(t *testing.T) {
	run := "login/*"
	cfg := Config{}
	cfg.File.Run = &run
	cases, _, err := Cases(cfg, NewClient(cfg, "http://localhost"))
	require.NoError(t, err)
	require.Len(t, cases, 2)
	for _, c := range cases {
		assert.Equal(t, "login", c.Suite)
	}
}

func TestRun_RepeatedWriteFailureMatchesBaseline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":21,"title":"always-the-same"}`))
	}))
	defer srv.Close()

	base := srv.URL
	cfg := Config{Root: t.TempDir(), Run: []string{"products/add"}, NoReport: true, NoCache: true}
	cfg.File.BaseURL = &base

	first, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	require.Equal(t, types.StatusFail, first.Results[0].Status)

	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, report.SaveBaseline(path, first.Results))
	saved, err := report.LoadBaseline(path)
	require.NoError(t, err)

	second, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.NotEqual(t, first.Results[0].Message, second.Results[0].Message, "payloads differ between runs")
	assert.Equal(t, first.Results[0].Fingerprint, second.Results[0].Fingerprint)
	assert.False(t, report.ShouldFail(second.Results, "new", saved))
}

func TestRun_CaseTimeout(t *testing.T) {
	reqTimeout := "5s"
	cfg := Config{Root: t.TempDir(), Run: []string{"login/invalid-user"}, Offline: true, NoReport: true, NoCache: true}
	cfg.File.Timeout = &reqTimeout

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, types.StatusPass, res.Results[0].Status, "no per-case limit when Timeout is 0")

	cfg.Timeout = time.Nanosecond
	res, err = Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, types.StatusFail, res.Results[0].Status)
	assert.Contains(t, res.Results[0].Message, "deadline exceeded")
}
