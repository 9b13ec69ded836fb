// geo/geo_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"math"
	"testing"
)

func TestDistanceKnownPoints(t *testing.T) {
	// Portsmouth, UK to Cherbourg, France -- roughly 76 nm.
	portsmouth := Coordinate{Lat: 50.89, Lng: -1.39}
	cherbourg := Coordinate{Lat: 49.63, Lng: -1.62}

	d, err := Distance(portsmouth, cherbourg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d < 60 || d > 90 {
		t.Errorf("distance = %.2f nm, expected roughly 76 nm", d)
	}
}

func TestDistanceZeroForSamePoint(t *testing.T) {
	c := Coordinate{Lat: 12.3, Lng: 45.6}
	d, err := Distance(c, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(d) > 1e-9 {
		t.Errorf("distance between identical points = %g, expected 0", d)
	}
}

func TestDistanceOutOfRangeLatitude(t *testing.T) {
	a := Coordinate{Lat: 91, Lng: 0}
	b := Coordinate{Lat: 0, Lng: 0}
	if _, err := Distance(a, b); err == nil {
		t.Errorf("expected error for out-of-range latitude")
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	origin := Coordinate{Lat: 0, Lng: 0}

	cases := []struct {
		name string
		dest Coordinate
		want float64
	}{
		{"north", Coordinate{Lat: 1, Lng: 0}, 0},
		{"east", Coordinate{Lat: 0, Lng: 1}, 90},
		{"south", Coordinate{Lat: -1, Lng: 0}, 180},
		{"west", Coordinate{Lat: 0, Lng: -1}, 270},
	}

	for _, tc := range cases {
		got, err := Bearing(origin, tc.dest)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if math.Abs(got-tc.want) > 0.5 {
			t.Errorf("%s: bearing = %.2f, expected ~%.2f", tc.name, got, tc.want)
		}
	}
}

// TestDestinationRoundTrip is testable property #5: Destination(a,
// Bearing(a,b), Distance(a,b)) should recover b within 0.5 nm for b
// within 500 nm of a.
func TestDestinationRoundTrip(t *testing.T) {
	cases := []struct {
		a, b Coordinate
	}{
		{Coordinate{50.89, -1.39}, Coordinate{49.63, -1.62}},
		{Coordinate{0, 0}, Coordinate{5, 5}},
		{Coordinate{-33.9, 151.2}, Coordinate{-30, 150}},
		{Coordinate{64, -20}, Coordinate{60, -10}},
	}

	for _, tc := range cases {
		d, err := Distance(tc.a, tc.b)
		if err != nil {
			t.Fatalf("Distance: %v", err)
		}
		if d > 500 {
			t.Fatalf("test case distance %.1f nm exceeds the 500 nm property bound", d)
		}

		brng, err := Bearing(tc.a, tc.b)
		if err != nil {
			t.Fatalf("Bearing: %v", err)
		}

		got, err := Destination(tc.a, brng, d)
		if err != nil {
			t.Fatalf("Destination: %v", err)
		}

		roundTrip, err := Distance(got, tc.b)
		if err != nil {
			t.Fatalf("Distance (round trip): %v", err)
		}
		if roundTrip > 0.5 {
			t.Errorf("round trip from %v to %v via bearing %.2f/dist %.2f landed %.3f nm off (want <= 0.5)",
				tc.a, tc.b, brng, d, roundTrip)
		}
	}
}

func TestAngleDiffWrapsAtSeam(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{350, 10, 20},
		{10, 350, 20},
		{0, 180, 180},
		{90, 90, 0},
	}
	for _, tc := range cases {
		got := AngleDiff(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("AngleDiff(%g, %g) = %g, want %g", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeBearing(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{361, 1},
		{-1, 359},
		{-361, 359},
		{720, 0},
	}
	for _, tc := range cases {
		got := NormalizeBearing(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NormalizeBearing(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}
