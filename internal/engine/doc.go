// Package engine runs the storecheck suites end to end: it builds the client,
// selects cases, executes them and writes the report, last-run cache and
// history. This package is internal; external consumers should use the
// stable facade in pkg/core.
package engine
