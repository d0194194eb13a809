package suite

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/storecheck/storecheck/internal/api"
	"github.com/storecheck/storecheck/internal/config"
	"github.com/storecheck/storecheck/internal/data"
)

// Case is a single test.
type Case struct {
	Suite    string
	Name     string
	Group    string
	Priority int
	Run      func(ctx context.Context, t *T)
}

// ID is "suite/name".
func (c Case) ID() string { return c.Suite + "/" + c.Name }

// Env is what cases need from the outside world.
type Env struct {
	Client *api.Client
	Config config.FileConfig
	Log    *zap.Logger
	// Rows feeds the datadriven suite. Nil means the suite has no cases.
	Rows []data.Row
	// Seed for payload generation; 0 picks a random seed per case.
	Seed int64
}

// CaseLog receives the informational lines a case logs while running.
type CaseLog interface {
	Info(msg string)
}

type nopLog struct{}

func (nopLog) Info(string) {}

// T is handed to a running case. It is not shared between cases.
type T struct {
	Client *api.Client
	Config config.FileConfig
	Faker  *gofakeit.Faker
	Log    *zap.Logger

	out CaseLog

	mu      sync.Mutex
	errs    []string
	skipped string
	logs    []string
	last    *api.Response
}

type stopCase struct{}

// Errorf records a failure and lets the case continue.
func (t *T) Errorf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, fmt.Sprintf(format, args...))
}

// Fatalf records a failure and stops the case.
func (t *T) Fatalf(format string, args ...any) {
	t.Errorf(format, args...)
	panic(stopCase{})
}

// Skipf marks the case skipped and stops it.
func (t *T) Skipf(format string, args ...any) {
	t.mu.Lock()
	t.skipped = fmt.Sprintf(format, args...)
	t.mu.Unlock()
	panic(stopCase{})
}

// Logf adds an informational line to the case's report entry.
func (t *T) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.mu.Lock()
	t.logs = append(t.logs, msg)
	t.mu.Unlock()
	t.out.Info(msg)
}

// Check records every non-nil error as a failure. It reports whether all
// checks passed.
func (t *T) Check(errs ...error) bool {
	ok := true
	for _, err := range errs {
		if err != nil {
			t.Errorf("%v", err)
			ok = false
		}
	}
	return ok
}

// Must stops the case when the request itself failed, and otherwise keeps
// resp as the case's last exchange.
func (t *T) Must(resp *api.Response, err error) *api.Response {
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.mu.Lock()
	t.last = resp
	t.mu.Unlock()
	t.Logf("%s", resp)
	return resp
}

// Failed reports whether any failure was recorded.
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.errs) > 0
}

func (t *T) message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.errs, "\n")
}

// run executes fn and converts stops and panics into recorded outcomes.
func (t *T) run(ctx context.Context, fn func(context.Context, *T)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(stopCase); ok {
			return
		}
		buf := make([]byte, 4<<10)
		buf = buf[:runtime.Stack(buf, false)]
		t.Errorf("panic: %v", r)
		t.Log.Error("case panicked", zap.Any("panic", r), zap.ByteString("stack", buf))
	}()
	fn(ctx, t)
}
