// Package files edits project files that sit next to the test runs.
package files

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore adds patterns missing from .gitignore at repoRoot, creating
// the file when needed. It reports which patterns were added.
func AppendIgnore(repoRoot string, patterns ...string) ([]string, error) {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		existing[strings.TrimSpace(sc.Text())] = true
	}

	var added []string
	var buf strings.Builder
	if len(b) > 0 && b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}
	for _, p := range patterns {
		if p == "" || existing[p] {
			continue
		}
		existing[p] = true
		added = append(added, p)
		buf.WriteString(p + "\n")
	}
	if len(added) == 0 {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.WriteString(buf.String()); err != nil {
		return nil, err
	}
	return added, nil
}

// GeneratedIgnores are the files a run leaves in the project directory.
func GeneratedIgnores() []string {
	return []string{
		"reports/",
		"logs/",
		".storecheck_last_run.json",
		".storecheck_history.jsonl",
		"storecheck-results.*",
		"zap-report.html",
	}
}
