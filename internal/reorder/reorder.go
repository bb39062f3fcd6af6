// Package reorder implements list reordering and the drag interaction that drives it.
package reorder

import "slices"

// Move returns a new slice with the element at from removed and reinserted at
// index to of the shortened sequence. When from equals to, or either index is
// outside the slice, the input is returned unchanged with false.
func Move[T any](s []T, from, to int) ([]T, bool) {
	n := len(s)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return s, false
	}

	out := make([]T, 0, n)
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	return slices.Insert(out, to, s[from]), true
}
