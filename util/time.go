// util/time.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"slices"
	"time"
)

// FindTimeAtOrBefore finds the index of the time at or before t in a sorted slice of times.
// Returns the index and an error if times is empty or t is out of range.
func FindTimeAtOrBefore(times []time.Time, t time.Time) (int, error) {
	if len(times) == 0 {
		return 0, fmt.Errorf("no times available")
	}
	if t.Before(times[0]) {
		return 0, fmt.Errorf("time %s is before earliest available time %s",
			t.Format(time.RFC3339), times[0].Format(time.RFC3339))
	}
	if t.After(times[len(times)-1]) {
		return 0, fmt.Errorf("time %s is after latest available time %s",
			t.Format(time.RFC3339), times[len(times)-1].Format(time.RFC3339))
	}

	idx, ok := slices.BinarySearchFunc(times, t, func(a, b time.Time) int {
		return a.Compare(b)
	})
	if !ok && idx > 0 {
		idx-- // We want the time <= t
	}
	return idx, nil
}
