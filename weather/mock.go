// weather/mock.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package weather

import (
	"context"
	"math"
	"time"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/routing"
)

// MockProvider synthesizes a deterministic weather field: a base wind
// that may vary linearly across the bounding box (a simple gradient),
// plus a periodic gust state layered on top. Used for the end-to-end
// scenarios in SPEC_FULL §8 and for tests that need a Grid without
// network access.
//
// Grounded on the teacher's updateMETARs fallback-synthesis idiom
// (plausible-data-when-absent) and, for the gust layer, on the gust
// state machine in the teacher's former wx/model.go (supplemented per
// SPEC_FULL §12 — that file is gone from this tree, but its periodic
// gust-front idea survives here re-expressed against geo.Coordinate).
type MockProvider struct {
	// BaseWindKt and BaseWindFromDeg describe the wind at the bounding
	// box's southwest corner; WindGradientKtPerDeg adds (or subtracts)
	// speed per degree of latitude moved north, modeling a simple
	// weather-system gradient.
	BaseWindKt           float64
	BaseWindFromDeg      float64
	WindGradientKtPerDeg float64

	GustPeriodHours float64 // gust cycle length; 0 disables gusting
	GustAmplitudeKt float64 // added to base speed at the peak of the cycle

	WaveHeightM  float64
	PrecipMMH    float64
	VisibilityKm float64
	TemperatureC float64
}

// NewCalmMockProvider returns a MockProvider with a light steady breeze
// and no weather hazards, a reasonable default for scenario tests.
func NewCalmMockProvider() *MockProvider {
	return &MockProvider{
		BaseWindKt: 12, BaseWindFromDeg: 0,
		GustPeriodHours: 6, GustAmplitudeKt: 3,
		VisibilityKm: 15,
	}
}

func (m *MockProvider) FetchArea(_ context.Context, bbox routing.Bounds, hours int, departure time.Time) (*Grid, error) {
	lats, lngs := GridAxes(bbox, GridSpacingNM)
	if hours < 1 {
		hours = 1
	}
	times := make([]time.Time, hours+1)
	for i := range times {
		times[i] = departure.Add(time.Duration(i) * time.Hour)
	}

	samples := make([][][]Sample, len(times))
	for ti, t := range times {
		elapsedH := t.Sub(departure).Hours()
		gust := m.gustAt(elapsedH)
		slice := make([][]Sample, len(lats))
		for li, lat := range lats {
			row := make([]Sample, len(lngs))
			windKt := m.BaseWindKt + m.WindGradientKtPerDeg*(lat-bbox.MinLat)
			if windKt < 0 {
				windKt = 0
			}
			for lj, lng := range lngs {
				row[lj] = Sample{
					Position:     geo.Coordinate{Lat: lat, Lng: lng},
					Time:         t,
					WindSpeedKt:  windKt,
					WindGustKt:   windKt + gust,
					WindFromDeg:  geo.NormalizeBearing(m.BaseWindFromDeg),
					WaveHeightM:  m.WaveHeightM,
					PrecipMMH:    m.PrecipMMH,
					VisibilityKm: m.VisibilityKm,
					TemperatureC: m.TemperatureC,
				}
			}
			slice[li] = row
		}
		samples[ti] = slice
	}

	return NewGrid(lats, lngs, times, samples)
}

// gustAt returns the additive gust speed (kt) at elapsed hours since
// departure: a half-rectified sine so gusts are always >= 0 and peak at
// GustAmplitudeKt once per GustPeriodHours.
func (m *MockProvider) gustAt(elapsedHours float64) float64 {
	if m.GustPeriodHours <= 0 {
		return 0
	}
	phase := 2 * math.Pi * elapsedHours / m.GustPeriodHours
	v := math.Sin(phase)
	if v < 0 {
		v = 0
	}
	return v * m.GustAmplitudeKt
}
