package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storecheck/storecheck/internal/api"
	"github.com/storecheck/storecheck/internal/audit"
	"github.com/storecheck/storecheck/internal/cache"
	"github.com/storecheck/storecheck/internal/config"
	"github.com/storecheck/storecheck/internal/data"
	"github.com/storecheck/storecheck/internal/fakestore"
	"github.com/storecheck/storecheck/internal/git"
	"github.com/storecheck/storecheck/internal/metrics"
	"github.com/storecheck/storecheck/internal/report"
	"github.com/storecheck/storecheck/internal/routes"
	"github.com/storecheck/storecheck/internal/suite"
	"github.com/storecheck/storecheck/internal/types"
)

// ErrNoCases is returned when the run/skip filters leave nothing to execute.
var ErrNoCases = errors.New("no test cases selected")

// DefaultReportDir is where HTML reports go when none is configured.
const DefaultReportDir = "reports"

// Config controls a run: scope, concurrency and outputs.
type Config struct {
	// Root is the project directory holding the last-run cache and history.
	Root string
	// File is the merged YAML/env configuration.
	File config.FileConfig

	Run      []string // suite/name globs; empty runs everything
	Skip     []string
	DataFile string

	Threads int
	Timeout time.Duration // per case; 0 means no limit beyond the request timeout
	Seed    int64

	// Offline runs against an in-process FakeStore instead of BaseURL.
	Offline bool

	ReportDir string
	NoReport  bool
	Theme     string
	NoCache   bool // skip saving the last run and history
	Baseline  string

	Log      *zap.Logger
	Metrics  *metrics.Collector
	Progress func(types.CaseResult)
}

// Result is the outcome of a run.
type Result struct {
	RunID       string
	Target      string
	Results     []types.CaseResult
	Summary     types.RunSummary
	NewFailures []types.CaseResult
	ReportPath  string
	Duration    time.Duration
}

func (cfg Config) log() *zap.Logger {
	if cfg.Log == nil {
		return zap.NewNop()
	}
	return cfg.Log
}

// Cases returns the selected cases for cfg together with the environment
// they run in. Rows from cfg.DataFile (or the configured data_file) feed the
// datadriven suite.
func Cases(cfg Config, client *api.Client) ([]suite.Case, suite.Env, error) {
	env := suite.Env{
		Client: client,
		Config: cfg.File,
		Log:    cfg.log(),
		Seed:   cfg.Seed,
	}
	path := cfg.DataFile
	if path == "" {
		path = cfg.File.Property("data_file")
	}
	if path != "" {
		rows, err := data.Load(path)
		if err != nil {
			return nil, env, fmt.Errorf("load data file: %w", err)
		}
		env.Rows = rows
	}
	run, skip := cfg.Run, cfg.Skip
	if len(run) == 0 {
		run = suite.SplitPatterns(cfg.File.Property("run"))
	}
	if len(skip) == 0 {
		skip = suite.SplitPatterns(cfg.File.Property("skip"))
	}
	return suite.Select(suite.All(env), run, skip), env, nil
}

// NewClient builds the API client for cfg. baseURL overrides the configured
// one when non-empty.
func NewClient(cfg Config, baseURL string) *api.Client {
	if baseURL == "" {
		baseURL = cfg.File.Property("base_url")
	}
	return api.New(api.Config{
		BaseURL:   baseURL,
		Timeout:   cfg.File.TimeoutOr(30 * time.Second),
		Proxy:     cfg.File.Property("proxy"),
		RateLimit: cfg.File.IntProperty("rate_limit"),
	}, api.WithLogger(cfg.log()), api.WithMetrics(cfg.Metrics))
}

// Run executes the selected suites and writes the configured outputs.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var res Result
	started := time.Now()
	log := cfg.log()

	baseURL := ""
	if cfg.Offline {
		srv, _ := fakestore.Server()
		defer srv.Close()
		baseURL = srv.URL
		if cfg.File.Property("username") == "" {
			u, p := fakestore.Username, fakestore.Password
			cfg.File.Username, cfg.File.Password = &u, &p
		}
	}
	client := NewClient(cfg, baseURL)
	res.Target = client.BaseURL()
	if res.Target == "" {
		res.Target = routes.BaseURL
	}

	cases, env, err := Cases(cfg, client)
	if err != nil {
		return res, err
	}
	if len(cases) == 0 {
		return res, ErrNoCases
	}

	threads := cfg.Threads
	if threads == 0 {
		threads = cfg.File.IntProperty("threads")
	}
	if threads < 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	rep := newReport(cfg, res.Target)
	res.RunID = uuid.NewString()
	runner := &suite.Runner{
		Env:      env,
		Threads:  threads,
		Timeout:  cfg.Timeout,
		RunID:    res.RunID,
		Listener: &listener{inner: report.NewListener(rep), metrics: cfg.Metrics, progress: cfg.Progress},
	}
	log.Info("run started",
		zap.String("run_id", res.RunID),
		zap.String("target", res.Target),
		zap.Int("cases", len(cases)),
		zap.Int("threads", threads))

	res.Results = runner.Run(ctx, cases)
	report.Stamp(res.Results)
	res.Summary = types.Summarize(res.Results)
	res.Duration = time.Since(started)

	base := report.Baseline{Items: map[string]bool{}}
	if cfg.Baseline != "" {
		base, _ = report.LoadBaseline(cfg.Baseline)
	}
	res.NewFailures = report.FilterNewFailures(res.Results, base)

	if !cfg.NoReport {
		dir := cfg.ReportDir
		if dir == "" {
			dir = cfg.File.Property("report_dir")
		}
		if dir == "" {
			dir = DefaultReportDir
		}
		if res.ReportPath, err = rep.Flush(dir); err != nil {
			return res, fmt.Errorf("write report: %w", err)
		}
	}

	log.Info("run finished",
		zap.String("run_id", res.RunID),
		zap.Int("passed", res.Summary.Passed),
		zap.Int("failed", res.Summary.Failed),
		zap.Int("skipped", res.Summary.Skipped),
		zap.Duration("duration", res.Duration),
		zap.String("report", res.ReportPath))

	if !cfg.NoCache {
		root := cfg.Root
		if root == "" {
			root = "."
		}
		if err := cache.SaveResults(root, cache.RunResults{
			RunID:      res.RunID,
			Results:    res.Results,
			Target:     res.Target,
			ReportPath: res.ReportPath,
		}); err != nil {
			log.Warn("failed to save last run", zap.Error(err))
		}
		rec := audit.CreateRunRecord(res.RunID, res.Target, res.Results, res.NewFailures, res.Duration, res.ReportPath, cfg.Baseline)
		if err := audit.NewAuditLog(root).LogRun(rec); err != nil {
			log.Warn("failed to write run history", zap.Error(err))
		}
	}
	return res, nil
}

func newReport(cfg Config, target string) *report.Report {
	info := report.DefaultSystemInfo("FakeStore API", cfg.File.Property("environment"), cfg.File.Property("tester"))
	rep := report.New(report.Options{
		DocumentTitle: "FakeStore API Test Report",
		ReportName:    "Test Execution Summary",
		Theme:         cfg.Theme,
		SystemInfo:    info,
	})
	rep.SetSystemInfo("Base URL", target)
	root := cfg.Root
	if root == "" {
		root = "."
	}
	if repo, commit, branch := git.RepoMetadata(root); commit != "" {
		if repo != "" {
			rep.SetSystemInfo("Repository", repo)
		}
		if branch != "" {
			rep.SetSystemInfo("Branch", branch)
		}
		rep.SetSystemInfo("Commit", commit)
	}
	return rep
}
