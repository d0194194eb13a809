package types

import "time"

// Product is the FakeStore product record. ID is zero for payloads that have
// not been created yet.
type Product struct {
	ID          int     `json:"id,omitempty"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// Login is the body of POST /auth/login.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the successful login response.
type Token struct {
	Token string `json:"token"`
}

// Status is the outcome of a single test case.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// CaseResult describes one executed test case, including the last request it
// issued and the response it observed.
type CaseResult struct {
	RunID       string        `json:"run_id"`
	Suite       string        `json:"suite"`
	Name        string        `json:"name"`
	Group       string        `json:"group,omitempty"`
	Priority    int           `json:"priority"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	Request     string        `json:"request,omitempty"` // e.g. "GET https://fakestoreapi.com/products/1"
	Response    string        `json:"response,omitempty"`
	StatusCode  int           `json:"status_code,omitempty"`
	Started     time.Time     `json:"started"`
	Duration    time.Duration `json:"duration"`
	Fingerprint string        `json:"fingerprint,omitempty"` // stable hash of the failure message
	Logs        []string      `json:"logs,omitempty"`
}

// ID is the suite-qualified case name used by filters and baselines.
func (r CaseResult) ID() string { return r.Suite + "/" + r.Name }

// RunSummary aggregates a set of results.
type RunSummary struct {
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Summarize counts results by status. Duration is the sum of case durations.
func Summarize(results []CaseResult) RunSummary {
	var s RunSummary
	for _, r := range results {
		s.Total++
		s.Duration += r.Duration
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		}
	}
	return s
}

// Risk is the ZAP alert risk level.
type Risk string

const (
	RiskHigh          Risk = "High"
	RiskMedium        Risk = "Medium"
	RiskLow           Risk = "Low"
	RiskInformational Risk = "Informational"
)

// Alert is one finding from the vulnerability scanner.
type Alert struct {
	PluginID    string `json:"pluginId"`
	Name        string `json:"alert"`
	Risk        Risk   `json:"risk"`
	Confidence  string `json:"confidence"`
	URL         string `json:"url"`
	Method      string `json:"method,omitempty"`
	Param       string `json:"param,omitempty"`
	Evidence    string `json:"evidence,omitempty"`
	Description string `json:"description,omitempty"`
	Solution    string `json:"solution,omitempty"`
	CWEID       string `json:"cweid,omitempty"`
	WASCID      string `json:"wascid,omitempty"`
}
