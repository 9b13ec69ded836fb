// weather/grid.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package weather implements the spatio-temporal weather field that
// isochrone and hybrid routing query for wind, waves, visibility, and
// precipitation along a candidate route.
package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/util"
)

// Sample is one (point, hour) weather observation. WindSpeedKt is the
// sustained/average true wind speed used by the polar; WindGustKt
// supplements it per SPEC_FULL §12 (surfaced in the response but not
// consulted by the polar or isochrone, which plan around sustained wind).
type Sample struct {
	Position     geo.Coordinate
	Time         time.Time
	WindSpeedKt  float64 // sustained true wind speed
	WindGustKt   float64
	WindFromDeg  float64 // meteorological "from" direction
	WaveHeightM  float64
	PrecipMMH    float64
	VisibilityKm float64
	TemperatureC float64
}

// Grid is an immutable rectangular lat/lng x time field of weather
// samples, queried via At. It is safe for concurrent read-only use by
// multiple goroutines, per SPEC_FULL §5's shared-resource policy.
type Grid struct {
	lats  []float64 // sorted ascending
	lngs  []float64 // sorted ascending
	times []time.Time // sorted ascending

	// samples[timeIdx][latIdx][lngIdx]
	samples [][][]Sample

	bounds routing.Bounds
	tree   *nearestIndexTree
}

// NewGrid builds a Grid from a dense set of samples. lats and lngs must
// each be sorted ascending and unique; times must be sorted ascending;
// samples must be indexed [time][lat][lng] with no gaps.
func NewGrid(lats, lngs []float64, times []time.Time, samples [][][]Sample) (*Grid, error) {
	if len(lats) == 0 || len(lngs) == 0 || len(times) == 0 {
		return nil, fmt.Errorf("weather: grid requires at least one lat, lng, and time")
	}
	if len(samples) != len(times) {
		return nil, fmt.Errorf("weather: samples has %d time slices, want %d", len(samples), len(times))
	}
	for ti, slice := range samples {
		if len(slice) != len(lats) {
			return nil, fmt.Errorf("weather: time slice %d has %d lat rows, want %d", ti, len(slice), len(lats))
		}
		for li, row := range slice {
			if len(row) != len(lngs) {
				return nil, fmt.Errorf("weather: time %d lat row %d has %d samples, want %d", ti, li, len(row), len(lngs))
			}
		}
	}

	return &Grid{
		lats:    lats,
		lngs:    lngs,
		times:   times,
		samples: samples,
		bounds: routing.Bounds{
			MinLat: lats[0], MaxLat: lats[len(lats)-1],
			MinLng: lngs[0], MaxLng: lngs[len(lngs)-1],
		},
		tree: newNearestIndexTree(lats, lngs),
	}, nil
}

// Bounds returns the grid's lat/lng bounding box.
func (g *Grid) Bounds() routing.Bounds { return g.bounds }

// Times returns the grid's sorted hourly time axis.
func (g *Grid) Times() []time.Time { return g.times }

// GridPoints returns every (lat,lng) sample location, row-major.
func (g *Grid) GridPoints() []geo.Coordinate {
	pts := make([]geo.Coordinate, 0, len(g.lats)*len(g.lngs))
	for _, lat := range g.lats {
		for _, lng := range g.lngs {
			pts = append(pts, geo.Coordinate{Lat: lat, Lng: lng})
		}
	}
	return pts
}

// NearestPoint returns the grid sample location closest to pos. It is
// used when a query falls far enough outside the bounding box that
// edge-clamping At would produce a misleading answer — e.g. a
// weather-seeking hybrid leg that curves past the padded corridor, per
// SPEC_FULL §12.
func (g *Grid) NearestPoint(pos geo.Coordinate) geo.Coordinate {
	latIdx, lngIdx := g.tree.nearest(pos)
	return geo.Coordinate{Lat: g.lats[latIdx], Lng: g.lngs[lngIdx]}
}

// nearestFallbackMarginDeg bounds how far outside the grid a query may
// fall before edge-clamping is considered misleading; beyond it, At
// snaps to the nearest actual sample point (via the KD-tree index)
// before interpolating, per SPEC_FULL §12.
const nearestFallbackMarginDeg = 1.0

// farOutsideBounds reports whether pos is further outside g's bounding
// box than nearestFallbackMarginDeg on any side.
func (g *Grid) farOutsideBounds(pos geo.Coordinate) bool {
	return pos.Lat < g.bounds.MinLat-nearestFallbackMarginDeg ||
		pos.Lat > g.bounds.MaxLat+nearestFallbackMarginDeg ||
		pos.Lng < g.bounds.MinLng-nearestFallbackMarginDeg ||
		pos.Lng > g.bounds.MaxLng+nearestFallbackMarginDeg
}

// At returns the interpolated weather at an arbitrary position and
// time. Queries outside the bounding box clamp to the nearest edge,
// except when they fall far enough outside that clamping would be
// misleading (SPEC_FULL §12), in which case At snaps to the nearest
// actual grid sample first. Queries outside the time range clamp to the
// nearest endpoint. Never errors, per SPEC_FULL §4.3's query contract.
func (g *Grid) At(pos geo.Coordinate, t time.Time) routing.WaypointWeather {
	if g.farOutsideBounds(pos) {
		pos = g.NearestPoint(pos)
	}

	latLo, latHi, latFrac := bracket(g.lats, pos.Lat)
	lngLo, lngHi, lngFrac := bracket(g.lngs, pos.Lng)

	tLo, tHi, tFrac := g.bracketTime(t)

	s0 := bilinear(g.samples[tLo], latLo, latHi, latFrac, lngLo, lngHi, lngFrac)
	if tLo == tHi {
		return toWaypointWeather(s0)
	}
	s1 := bilinear(g.samples[tHi], latLo, latHi, latFrac, lngLo, lngHi, lngFrac)
	return toWaypointWeather(lerpSample(s0, s1, tFrac))
}

func (g *Grid) bracketTime(t time.Time) (lo, hi int, frac float64) {
	idx, err := util.FindTimeAtOrBefore(g.times, t)
	if err != nil {
		if t.Before(g.times[0]) {
			return 0, 0, 0
		}
		return len(g.times) - 1, len(g.times) - 1, 0
	}
	if idx == len(g.times)-1 {
		return idx, idx, 0
	}
	span := g.times[idx+1].Sub(g.times[idx])
	if span <= 0 {
		return idx, idx, 0
	}
	frac = float64(t.Sub(g.times[idx])) / float64(span)
	return idx, idx + 1, frac
}

// bracket finds the surrounding indices in a sorted slice, clamping at
// the ends rather than erroring (grid queries never fail on position).
func bracket(sorted []float64, v float64) (lo, hi int, frac float64) {
	n := len(sorted)
	if n == 1 {
		return 0, 0, 0
	}
	if v <= sorted[0] {
		return 0, 1, 0
	}
	if v >= sorted[n-1] {
		return n - 2, n - 1, 1
	}
	for i := 1; i < n; i++ {
		if sorted[i] >= v {
			span := sorted[i] - sorted[i-1]
			if span <= 0 {
				return i - 1, i, 0
			}
			return i - 1, i, (v - sorted[i-1]) / span
		}
	}
	return n - 2, n - 1, 1
}

func bilinear(slice [][]Sample, latLo, latHi int, latFrac float64, lngLo, lngHi int, lngFrac float64) Sample {
	q11 := slice[latLo][lngLo]
	q12 := slice[latLo][lngHi]
	q21 := slice[latHi][lngLo]
	q22 := slice[latHi][lngHi]

	top := lerpSample(q11, q12, lngFrac)
	bot := lerpSample(q21, q22, lngFrac)
	return lerpSample(top, bot, latFrac)
}

// lerpSample linearly interpolates scalar fields and circularly
// interpolates wind direction via unit-vector averaging, avoiding the
// 0/360 degree seam bug a naive numeric average would hit.
func lerpSample(a, b Sample, frac float64) Sample {
	return Sample{
		WindSpeedKt:  lerp(a.WindSpeedKt, b.WindSpeedKt, frac),
		WindGustKt:   lerp(a.WindGustKt, b.WindGustKt, frac),
		WindFromDeg:  lerpAngle(a.WindFromDeg, b.WindFromDeg, frac),
		WaveHeightM:  lerp(a.WaveHeightM, b.WaveHeightM, frac),
		PrecipMMH:    lerp(a.PrecipMMH, b.PrecipMMH, frac),
		VisibilityKm: lerp(a.VisibilityKm, b.VisibilityKm, frac),
		TemperatureC: lerp(a.TemperatureC, b.TemperatureC, frac),
	}
}

func lerp(a, b, frac float64) float64 { return a + (b-a)*frac }

func lerpAngle(a, b, frac float64) float64 {
	ar, br := a*math.Pi/180, b*math.Pi/180
	x := math.Cos(ar)*(1-frac) + math.Cos(br)*frac
	y := math.Sin(ar)*(1-frac) + math.Sin(br)*frac
	deg := math.Atan2(y, x) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

func toWaypointWeather(s Sample) routing.WaypointWeather {
	return routing.WaypointWeather{
		WindSpeedKt:     s.WindSpeedKt,
		WindSustainedKt: s.WindSpeedKt,
		WindGustKt:      s.WindGustKt,
		WindFromDeg:     s.WindFromDeg,
		WaveHeightM:     s.WaveHeightM,
		PrecipMMPerHr:   s.PrecipMMH,
		VisibilityKm:    s.VisibilityKm,
		TemperatureC:    s.TemperatureC,
	}
}
