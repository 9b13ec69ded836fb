// routing/types_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routing

import "testing"

func TestBoatClassValid(t *testing.T) {
	for _, c := range []BoatClass{ClassSailboat, ClassMotorboat, ClassCatamaran} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if BoatClass("kayak").Valid() {
		t.Errorf("kayak should not be a valid boat class")
	}
}

func TestMotorboatHasNoNoGoZone(t *testing.T) {
	if ClassMotorboat.HasNoGoZone() {
		t.Errorf("motorboat should have no no-go zone")
	}
	if !ClassSailboat.HasNoGoZone() {
		t.Errorf("sailboat should have a no-go zone")
	}
	if !ClassCatamaran.HasNoGoZone() {
		t.Errorf("catamaran should have a no-go zone")
	}
}

func TestCoordinateValid(t *testing.T) {
	cases := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{Lat: 0, Lng: 0}, true},
		{Coordinate{Lat: 90, Lng: 180}, true},
		{Coordinate{Lat: -90, Lng: -180}, true},
		{Coordinate{Lat: 91, Lng: 0}, false},
		{Coordinate{Lat: 0, Lng: 181}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("%+v.Valid() = %v, want %v", tc.c, got, tc.want)
		}
	}
}
