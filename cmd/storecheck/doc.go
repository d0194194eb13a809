// Package storecheck provides the command-line interface for the storecheck
// FakeStore API test harness. It configures subcommands (run, cases, data,
// scan, report, etc.), parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/storecheck/storecheck/cmd/storecheck"
//	func main() { storecheck.Execute() }
package storecheck
