package report

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/storecheck/storecheck/internal/types"
)

// Baseline is the set of failures already known when it was saved.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

// LoadBaseline reads a baseline file. A missing file yields an empty
// baseline together with the read error.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	_ = json.Unmarshal(f, &b)
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// SaveBaseline records every failed result.
func SaveBaseline(path string, results []types.CaseResult) error {
	b := Baseline{Items: map[string]bool{}}
	for _, r := range results {
		if r.Status == types.StatusFail {
			b.Items[key(r)] = true
		}
	}
	buf, _ := json.MarshalIndent(b, "", "  ")
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFailures returns the failed results that are not in base.
func FilterNewFailures(results []types.CaseResult, base Baseline) []types.CaseResult {
	var out []types.CaseResult
	for _, r := range results {
		if r.Status == types.StatusFail && !base.Items[key(r)] {
			out = append(out, r)
		}
	}
	return out
}

// Fingerprint is a stable hash of a failure message. Assertion lines are
// reduced to what was checked ("title: expected"), dropping the expected and
// actual values, which carry generated payloads. Digits in other lines are
// masked so ports and ids do not change the hash.
func Fingerprint(message string) string {
	if message == "" {
		return "0000000000000000"
	}
	sum := xxhash.Sum64String(normalizeMessage(message))
	s := strconv.FormatUint(sum, 16)
	for len(s) < 16 {
		s = "0" + s
	}
	return s
}

var digits = regexp.MustCompile(`[0-9]+`)

func normalizeMessage(message string) string {
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if j := strings.Index(line, ": expected "); j >= 0 {
			line = line[:j] + ": expected"
		} else {
			line = digits.ReplaceAllString(line, "0")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Stamp fills in the fingerprint of every failed result.
func Stamp(results []types.CaseResult) {
	for i := range results {
		if results[i].Status == types.StatusFail && results[i].Fingerprint == "" {
			results[i].Fingerprint = Fingerprint(results[i].Message)
		}
	}
}

func key(r types.CaseResult) string {
	fp := r.Fingerprint
	if fp == "" {
		fp = Fingerprint(r.Message)
	}
	return r.ID() + "|" + fp
}

// ShouldFail decides the exit status for failOn: "any" fails on any failed
// case (the default), "new" only on failures missing from base, "none" never.
func ShouldFail(results []types.CaseResult, failOn string, base Baseline) bool {
	switch failOn {
	case "none":
		return false
	case "new":
		return len(FilterNewFailures(results, base)) > 0
	}
	for _, r := range results {
		if r.Status == types.StatusFail {
			return true
		}
	}
	return false
}

// Contains reports whether r is a failure recorded in b.
func (b Baseline) Contains(r types.CaseResult) bool {
	return r.Status == types.StatusFail && b.Items[key(r)]
}
