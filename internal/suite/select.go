package suite

import (
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Select keeps the cases whose ID matches one of run (all when run is empty)
// and none of skip. Patterns are doublestar globs; a bare suite name such as
// "login" selects the whole suite.
func Select(cases []Case, run, skip []string) []Case {
	run = normalizePatterns(run)
	skip = normalizePatterns(skip)
	var out []Case
	for _, c := range cases {
		if len(run) > 0 && !matchAny(c.ID(), run) {
			continue
		}
		if matchAny(c.ID(), skip) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SplitPatterns splits a comma-separated pattern list.
func SplitPatterns(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizePatterns(ps []string) []string {
	var out []string
	for _, p := range ps {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			p += "/*"
		}
		out = append(out, p)
	}
	return out
}

func matchAny(id string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, id); ok {
			return true
		}
	}
	return false
}
