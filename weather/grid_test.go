// weather/grid_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package weather

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/routing"
)

func simpleGrid(t *testing.T) *Grid {
	t.Helper()
	lats := []float64{0, 1}
	lngs := []float64{0, 1}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour)}

	mk := func(wind float64, windFrom float64) Sample {
		return Sample{WindSpeedKt: wind, WindFromDeg: windFrom, WaveHeightM: 1, VisibilityKm: 10}
	}

	samples := [][][]Sample{
		{ // t0
			{mk(10, 0), mk(10, 90)},
			{mk(20, 0), mk(20, 90)},
		},
		{ // t1
			{mk(14, 0), mk(14, 90)},
			{mk(24, 0), mk(24, 90)},
		},
	}

	g, err := NewGrid(lats, lngs, times, samples)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestAtExactGridPointAndTime(t *testing.T) {
	g := simpleGrid(t)
	base := g.Times()[0]
	w := g.At(geo.Coordinate{Lat: 0, Lng: 0}, base)
	if w.WindSpeedKt != 10 {
		t.Errorf("WindSpeedKt = %v, want 10", w.WindSpeedKt)
	}
}

func TestAtBilinearSpatialInterpolation(t *testing.T) {
	g := simpleGrid(t)
	base := g.Times()[0]
	w := g.At(geo.Coordinate{Lat: 0.5, Lng: 0}, base)
	if math.Abs(w.WindSpeedKt-15) > 1e-9 {
		t.Errorf("WindSpeedKt = %v, want 15 (midpoint of 10 and 20)", w.WindSpeedKt)
	}
}

func TestAtLinearTemporalInterpolation(t *testing.T) {
	g := simpleGrid(t)
	mid := g.Times()[0].Add(30 * time.Minute)
	w := g.At(geo.Coordinate{Lat: 0, Lng: 0}, mid)
	if math.Abs(w.WindSpeedKt-12) > 1e-9 {
		t.Errorf("WindSpeedKt = %v, want 12 (midpoint of 10 and 14)", w.WindSpeedKt)
	}
}

func TestAtClampsOutOfBoundsPosition(t *testing.T) {
	g := simpleGrid(t)
	base := g.Times()[0]
	far := g.At(geo.Coordinate{Lat: 100, Lng: 100}, base)
	corner := g.At(geo.Coordinate{Lat: 1, Lng: 1}, base)
	if far != corner {
		t.Errorf("out-of-bounds query should clamp to nearest corner: got %+v, want %+v", far, corner)
	}
}

func TestAtFarOutsideBoundsUsesNearestSampleFallback(t *testing.T) {
	g := simpleGrid(t)
	base := g.Times()[0]
	// Well beyond nearestFallbackMarginDeg: At must route through
	// NearestPoint rather than bracket's per-axis clamp.
	far := g.At(geo.Coordinate{Lat: 50, Lng: 50}, base)
	nearest := g.NearestPoint(geo.Coordinate{Lat: 50, Lng: 50})
	direct := g.At(nearest, base)
	if far != direct {
		t.Errorf("far-outside query = %+v, want the nearest sample's weather %+v", far, direct)
	}
}

func TestAtClampsOutOfRangeTime(t *testing.T) {
	g := simpleGrid(t)
	before := g.At(geo.Coordinate{Lat: 0, Lng: 0}, g.Times()[0].Add(-time.Hour))
	after := g.At(geo.Coordinate{Lat: 0, Lng: 0}, g.Times()[1].Add(time.Hour))
	if before.WindSpeedKt != 10 {
		t.Errorf("query before range should clamp to first sample, got %v", before.WindSpeedKt)
	}
	if after.WindSpeedKt != 14 {
		t.Errorf("query after range should clamp to last sample, got %v", after.WindSpeedKt)
	}
}

func TestCircularWindInterpolationAvoidsSeamBug(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lats := []float64{0, 1}
	lngs := []float64{0}
	times := []time.Time{base}
	samples := [][][]Sample{
		{
			{{WindFromDeg: 350, WindSpeedKt: 10}},
			{{WindFromDeg: 10, WindSpeedKt: 10}},
		},
	}
	g, err := NewGrid(lats, lngs, times, samples)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	w := g.At(geo.Coordinate{Lat: 0.5, Lng: 0}, base)
	// A naive numeric average of 350 and 10 gives 180 (exactly wrong);
	// the circular average should land at 0 (the seam itself).
	if w.WindFromDeg > 5 && w.WindFromDeg < 355 {
		t.Errorf("circular interpolation of 350/10 deg = %v, want near 0", w.WindFromDeg)
	}
}

func TestNearestPointFindsClosestSample(t *testing.T) {
	g := simpleGrid(t)
	nearest := g.NearestPoint(geo.Coordinate{Lat: 0.9, Lng: 0.1})
	if nearest.Lat != 1 || nearest.Lng != 0 {
		t.Errorf("NearestPoint = %+v, want (1,0)", nearest)
	}
}

func TestMockProviderFetchAreaCoversRequestedHours(t *testing.T) {
	p := NewCalmMockProvider()
	bbox := routing.Bounds{MinLat: 0, MaxLat: 1, MinLng: 0, MaxLng: 1}
	departure := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	g, err := p.FetchArea(context.Background(), bbox, 4, departure)
	if err != nil {
		t.Fatalf("FetchArea: %v", err)
	}
	if len(g.Times()) != 5 {
		t.Errorf("got %d time slices, want 5 (hours 0..4)", len(g.Times()))
	}
	if len(g.GridPoints()) == 0 {
		t.Errorf("expected at least one grid point")
	}
}

func TestMockProviderGustNeverNegative(t *testing.T) {
	p := NewCalmMockProvider()
	bbox := routing.Bounds{MinLat: 0, MaxLat: 0.5, MinLng: 0, MaxLng: 0.5}
	departure := time.Now().Truncate(time.Hour)
	g, err := p.FetchArea(context.Background(), bbox, 12, departure)
	if err != nil {
		t.Fatalf("FetchArea: %v", err)
	}
	for _, t0 := range g.Times() {
		w := g.At(geo.Coordinate{Lat: 0, Lng: 0}, t0)
		if w.WindGustKt < w.WindSustainedKt {
			t.Errorf("gust speed %v below sustained speed %v at %v", w.WindGustKt, w.WindSustainedKt, t0)
		}
	}
}
