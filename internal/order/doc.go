// Package order checks whether a sequence is sorted in a requested direction.
// Both directions are non-strict: equal neighbours satisfy ascending and
// descending alike, and sequences of length 0 or 1 are always sorted.
package order
