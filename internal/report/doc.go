// Package report renders run results: the standalone HTML report, console
// tables, JUnit XML for CI, SARIF for scanner alerts, and the baseline of
// known failures used to gate CI on new regressions.
package report
