package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

// FileTimeLayout is the timestamp used in report file names.
const FileTimeLayout = "2006.01.02.15.04.05"

var tmpl = template.Must(template.New("report").Funcs(funcMap()).Parse(reportTemplate))

func funcMap() template.FuncMap {
	fm := sprig.FuncMap()
	fm["highlight"] = highlightJSON
	fm["statusClass"] = func(s any) string { return strings.ToLower(fmt.Sprint(s)) }
	fm["ms"] = func(d time.Duration) int64 { return d.Milliseconds() }
	return fm
}

type suiteView struct {
	Name     string
	Start    time.Time
	End      time.Time
	Infos    []string
	Tests    []testView
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

type testView struct {
	Name     string
	Group    string
	Status   string
	Start    time.Time
	Duration time.Duration
	Request  string
	Response string
	Events   []Event
}

type reportView struct {
	Options
	Created  time.Time
	Suites   []suiteView
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

func (r *Report) view() reportView {
	totals := r.Totals()
	r.mu.Lock()
	defer r.mu.Unlock()
	v := reportView{
		Options:  r.opts,
		Created:  r.created,
		Total:    totals.Total,
		Passed:   totals.Passed,
		Failed:   totals.Failed,
		Skipped:  totals.Skipped,
		Duration: totals.Duration,
	}
	v.SystemInfo = append([]KV(nil), r.opts.SystemInfo...)
	for _, s := range r.suites {
		sv := suiteView{Name: s.Name, Start: s.Start, End: s.End, Infos: append([]string(nil), s.infos...)}
		for _, t := range s.tests {
			status := string(t.Status)
			if status == "" {
				status = "info"
			}
			switch t.Status {
			case "pass":
				sv.Passed++
			case "fail":
				sv.Failed++
			case "skip":
				sv.Skipped++
			}
			sv.Duration += t.Duration
			sv.Tests = append(sv.Tests, testView{
				Name:     t.Name,
				Group:    t.Group,
				Status:   status,
				Start:    t.Start,
				Duration: t.Duration,
				Request:  t.Request,
				Response: t.Response,
				Events:   append([]Event(nil), t.events...),
			})
		}
		v.Suites = append(v.Suites, sv)
	}
	return v
}

// WriteHTML renders the report as a single self-contained HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.view()); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Flush writes the report to dir as Extent-Report-<timestamp>.html and
// returns the file path.
func (r *Report) Flush(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := "Extent-Report-" + r.created.Format(FileTimeLayout) + ".html"
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := r.WriteHTML(f); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

// LatestHTML returns the newest report file in dir, or "" when none exists.
func LatestHTML(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "Extent-Report-*.html"))
	if err != nil || len(matches) == 0 {
		return "", err
	}
	// the timestamp layout sorts lexically
	latest := matches[0]
	for _, m := range matches[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest, nil
}

// highlightJSON pretty-prints and colours a response body. Bodies that are
// not JSON are shown as escaped text.
func highlightJSON(body string) template.HTML {
	if body == "" {
		return ""
	}
	lexer := lexers.Get("json")
	src := body
	if gjson.Valid(body) {
		src = string(pretty.Pretty([]byte(body)))
	} else {
		lexer = lexers.Get("plaintext")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(2))

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(body) + "</pre>")
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(body) + "</pre>")
	}
	return template.HTML(buf.String())
}

func itoa(n int) string { return strconv.Itoa(n) }
