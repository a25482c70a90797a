// Package search provides binary search over slices sorted by a derived key.
//
// The layout engine keeps columns ordered by start date and by left offset;
// lookups by either key go through [Bracket], which reports the neighbors
// around a value rather than a single match so callers can decide between
// the enclosing element and the next one.
package search

import (
	"cmp"
	"time"
)

// Bracket returns the indices of the last element whose key is <= value (lo)
// and the first element whose key is > value (hi). On an exact match both
// indices point at the matching element. lo is -1 when every key is greater
// than value; hi is len(items) when none is.
//
// items must be sorted ascending by key.
func Bracket[T, K any](items []T, value K, key func(T) K, compare func(a, b K) int) (lo, hi int) {
	lo, hi = -1, len(items)
	for lo+1 < hi {
		mid := int(uint(lo+hi) >> 1)
		c := compare(key(items[mid]), value)
		switch {
		case c == 0:
			return mid, mid
		case c < 0:
			lo = mid
		default:
			hi = mid
		}
	}
	return lo, hi
}

// Floor returns the last element whose key is <= value.
func Floor[T, K any](items []T, value K, key func(T) K, compare func(a, b K) int) (T, bool) {
	lo, _ := Bracket(items, value, key, compare)
	if lo < 0 {
		var zero T
		return zero, false
	}
	return items[lo], true
}

// FloorOrNext returns the last element whose key is <= value, or the first
// element when value lies before every key.
func FloorOrNext[T, K any](items []T, value K, key func(T) K, compare func(a, b K) int) (T, bool) {
	lo, hi := Bracket(items, value, key, compare)
	switch {
	case lo >= 0:
		return items[lo], true
	case hi < len(items):
		return items[hi], true
	}
	var zero T
	return zero, false
}

// Times compares two instants.
func Times(a, b time.Time) int {
	return a.Compare(b)
}

// Floats compares two offsets.
func Floats(a, b float64) int {
	return cmp.Compare(a, b)
}
