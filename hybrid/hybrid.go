// hybrid/hybrid.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package hybrid generates candidate routes from closed-form heuristics
// (tacking legs, VMG-biased headings, weather-seeking curves) rather
// than isochrone search, to supply fast alternatives and a fallback when
// the search finds nothing.
package hybrid

import (
	"time"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/weather"
)

// Scenario classifies the relationship between destination bearing and
// wind direction at the origin.
type Scenario int

const (
	Upwind Scenario = iota
	Beam
	Broad
	Downwind
)

func (s Scenario) String() string {
	switch s {
	case Upwind:
		return "UPWIND"
	case Beam:
		return "BEAM"
	case Broad:
		return "BROAD"
	case Downwind:
		return "DOWNWIND"
	default:
		return "UNKNOWN"
	}
}

// Classify buckets the angle between destBearing and the wind's "from"
// direction at the origin into one of the four scenarios, per
// SPEC_FULL §4.5.
//
// Grounded on the teacher's wx.WindSpecifier range-matching idiom in
// wx/wind.go: a sequence of wraparound-safe angle-range checks rather
// than arithmetic bucketing, kept here for the same reason it worked
// there — clear boundary semantics at the edges of each range.
func Classify(destBearing, windFromDeg float64) Scenario {
	angle := geo.AngleDiff(destBearing, windFromDeg)
	switch {
	case angle < 60:
		return Upwind
	case angle < 100:
		return Beam
	case angle < 150:
		return Broad
	default:
		return Downwind
	}
}

// Generate runs every applicable generator for the scenario at the
// origin and returns their route skeletons (weather not yet attached).
func Generate(boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time) ([]routing.Route, error) {
	w := grid.At(origin, departure)
	scenario := Classify(mustBearing(origin, goal), w.WindFromDeg)

	var routes []routing.Route

	if scenario == Upwind && boat.Class != routing.ClassMotorboat {
		tack, err := Tacking(boat, table, grid, origin, goal, departure, 4)
		if err == nil {
			routes = append(routes, tack...)
		}
	}

	vmg, err := VMG(boat, table, grid, origin, goal, departure)
	if err == nil {
		routes = append(routes, vmg)
	}

	seek, err := WeatherSeeking(boat, table, grid, origin, goal, departure)
	if err == nil {
		routes = append(routes, seek)
	}

	return routes, nil
}

func mustBearing(a, b geo.Coordinate) float64 {
	bearing, err := geo.Bearing(a, b)
	if err != nil {
		return 0
	}
	return bearing
}
