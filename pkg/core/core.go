package core

import (
	"cmp"
	"context"

	"github.com/storecheck/storecheck/internal/engine"
	"github.com/storecheck/storecheck/internal/order"
	"github.com/storecheck/storecheck/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Result = engine.Result
type CaseResult = types.CaseResult
type Direction = order.Direction

// Sort directions.
const (
	Ascending  = order.Ascending
	Descending = order.Descending
)

// Run is the stable entrypoint for other programs.
func Run(ctx context.Context, cfg Config) (Result, error) {
	return engine.Run(ctx, cfg)
}

// IsSorted reports whether seq is ordered in dir. Equal neighbours are
// allowed in both directions; empty and single-element sequences are sorted.
func IsSorted[T cmp.Ordered](seq []T, dir Direction) bool {
	return order.IsSorted(seq, dir)
}

// IsSortedAscending is IsSorted(seq, Ascending).
func IsSortedAscending[T cmp.Ordered](seq []T) bool { return order.IsSortedAscending(seq) }

// IsSortedDescending is IsSorted(seq, Descending).
func IsSortedDescending[T cmp.Ordered](seq []T) bool { return order.IsSortedDescending(seq) }
