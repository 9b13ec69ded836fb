// util/slice.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

// MapSlice returns the slice that is the result of applying the provided
// xform function to all the elements of the given slice.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	to := make([]T, len(from))
	for i := range from {
		to[i] = xform(from[i])
	}
	return to
}

// FilterSliceInPlace applies the given filter function pred to the given
// slice, returning a slice constructed from the provided slice's memory
// that only contains elements where pred returned true.
func FilterSliceInPlace[V any](s []V, pred func(V) bool) []V {
	var out int
	for i := range s {
		if pred(s[i]) {
			if i != out {
				s[out] = s[i]
			}
			out++
		}
	}
	return s[:out]
}
