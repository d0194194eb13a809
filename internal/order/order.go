package order

import (
	"cmp"
	"fmt"
	"strings"
)

// Direction is the requested ordering of a sequence.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection maps the API's sort values onto a Direction.
// It accepts asc, ascending, desc and descending in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q (want asc|desc)", s)
}

// IsSorted reports whether seq is ordered in dir.
func IsSorted[T cmp.Ordered](seq []T, dir Direction) bool {
	return FirstViolation(seq, dir) < 0
}

// IsSortedAscending reports whether seq[i-1] <= seq[i] for every adjacent pair.
func IsSortedAscending[T cmp.Ordered](seq []T) bool {
	return IsSorted(seq, Ascending)
}

// IsSortedDescending reports whether seq[i-1] >= seq[i] for every adjacent pair.
func IsSortedDescending[T cmp.Ordered](seq []T) bool {
	return IsSorted(seq, Descending)
}

// IsSortedFunc is IsSorted for element types without a natural order.
// cmp must return a negative number when a < b, zero when equal and a
// positive number when a > b.
func IsSortedFunc[T any](seq []T, dir Direction, cmp func(a, b T) int) bool {
	return firstViolationFunc(seq, dir, cmp) < 0
}

// FirstViolation returns the index of the first element that breaks the
// order, or -1 when seq is sorted in dir.
func FirstViolation[T cmp.Ordered](seq []T, dir Direction) int {
	return firstViolationFunc(seq, dir, cmp.Compare[T])
}

func firstViolationFunc[T any](seq []T, dir Direction, cmp func(a, b T) int) int {
	for i := 1; i < len(seq); i++ {
		c := cmp(seq[i-1], seq[i])
		if dir == Descending {
			c = -c
		}
		if c > 0 {
			return i
		}
	}
	return -1
}
