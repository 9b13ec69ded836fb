// weather/provider.go
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

// Provider is the weather data source contract. FetchArea must return a
// dense Grid covering bbox at hourly resolution for the given horizon,
// starting at departure. Implementations batch internally at no more
// than 100 points per upstream call, per SPEC_FULL §4.3.
//
// Grounded on the teacher's wx.Provider interface
// (GetPrecipURL/GetAtmosGrid), generalized to a single method since this
// domain has one weather concept, not several wire formats.
type Provider interface {
	FetchArea(ctx context.Context, bbox routing.Bounds, hours int, departure time.Time) (*Grid, error)
}

// GridSpacingNM is the default spacing between grid points in nautical
// miles, per spec.md's "Grid spacing is a fixed nautical-mile distance
// (target 10 nm)."
const GridSpacingNM = 10.0

// CorridorPadDeg is the fixed degree pad applied on each side of the
// start/end corridor, per spec.md's "Bounding box pads the great-circle
// corridor by 0.5° on each side."
const CorridorPadDeg = 0.5

// BoundingBox pads a rectangle around start/end by padDeg degrees on
// each side, per spec.md's literal "0.5° on each side" rule (not a
// distance- or nm-derived pad), then builds it into a routing.Bounds.
func BoundingBox(start, end geo.Coordinate, padDeg float64) routing.Bounds {
	minLat, maxLat := start.Lat, end.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLng, maxLng := start.Lng, end.Lng
	if minLng > maxLng {
		minLng, maxLng = maxLng, minLng
	}

	b := routing.Bounds{
		MinLat: minLat - padDeg,
		MaxLat: maxLat + padDeg,
		MinLng: minLng - padDeg,
		MaxLng: maxLng + padDeg,
	}
	if b.MinLat < -90 {
		b.MinLat = -90
	}
	if b.MaxLat > 90 {
		b.MaxLat = 90
	}
	if b.MinLng < -180 {
		b.MinLng = -180
	}
	if b.MaxLng > 180 {
		b.MaxLng = 180
	}
	return b
}

// GridAxes lays out lat/lng sample points spaced approximately
// spacingNM apart across bounds, per SPEC_FULL §4.3's "latitude-dependent
// longitude step" note.
func GridAxes(bounds routing.Bounds, spacingNM float64) (lats, lngs []float64) {
	if spacingNM <= 0 {
		spacingNM = GridSpacingNM
	}
	latStep := spacingNM / 60.0
	for lat := bounds.MinLat; ; lat += latStep {
		lats = append(lats, lat)
		if lat >= bounds.MaxLat {
			break
		}
	}
	midLat := (bounds.MinLat + bounds.MaxLat) / 2
	lngScale := cosDeg(midLat)
	if lngScale < 0.1 {
		lngScale = 0.1
	}
	lngStep := spacingNM / (60.0 * lngScale)
	for lng := bounds.MinLng; ; lng += lngStep {
		lngs = append(lngs, lng)
		if lng >= bounds.MaxLng {
			break
		}
	}
	return lats, lngs
}

func cosDeg(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}
