package types

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	rs := []CaseResult{
		{Suite: "products", Name: "get-all", Status: StatusPass, Duration: time.Second},
		{Suite: "products", Name: "delete", Status: StatusFail, Duration: 2 * time.Second},
		{Suite: "login", Name: "valid", Status: StatusSkip},
	}
	s := Summarize(rs)
	if s.Total != 3 || s.Passed != 1 || s.Failed != 1 || s.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Duration != 3*time.Second {
		t.Fatalf("unexpected duration: %v", s.Duration)
	}
	if rs[1].ID() != "products/delete" {
		t.Fatalf("unexpected id: %q", rs[1].ID())
	}
}
