// Package core provides a small, stable facade over storecheck's internal
// engine for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without importing internal
// packages.
//
// Example:
//
//	res, err := core.Run(ctx, core.Config{Root: ".", Offline: true})
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, res.Results)
package core
