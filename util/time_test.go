// util/time_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"testing"
	"time"
)

func TestFindTimeAtOrBeforeExactMatch(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}

	idx, err := FindTimeAtOrBefore(times, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("FindTimeAtOrBefore: %v", err)
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1", idx)
	}
}

func TestFindTimeAtOrBeforeBetweenSamples(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(2 * time.Hour)}

	idx, err := FindTimeAtOrBefore(times, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("FindTimeAtOrBefore: %v", err)
	}
	if idx != 0 {
		t.Errorf("idx = %d, want 0 (the time at or before the query)", idx)
	}
}

func TestFindTimeAtOrBeforeOutOfRangeErrors(t *testing.T) {
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour)}

	if _, err := FindTimeAtOrBefore(times, base.Add(-time.Minute)); err == nil {
		t.Errorf("expected an error for a query before the earliest time")
	}
	if _, err := FindTimeAtOrBefore(times, base.Add(2*time.Hour)); err == nil {
		t.Errorf("expected an error for a query after the latest time")
	}
}

func TestFindTimeAtOrBeforeEmptySliceErrors(t *testing.T) {
	if _, err := FindTimeAtOrBefore(nil, time.Now()); err == nil {
		t.Errorf("expected an error for an empty time slice")
	}
}
