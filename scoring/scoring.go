// scoring/scoring.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package scoring rates a generated route 0-100 from its waypoints'
// attached weather, flags no-go violations, and produces human-readable
// pros/cons/warnings.
package scoring

import (
	"fmt"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/routing"
)

// Weights controls the relative contribution of each sub-score to the
// final 0-100 route score. Defaults sum to 1.0 per SPEC_FULL §4.6;
// overridable per orchestrator through Orchestrator.ScoringWeights (the
// config package does not bind them).
type Weights struct {
	Wind       float64
	Waves      float64
	Visibility float64
	Distance   float64
}

// DefaultWeights are the weights named explicitly in SPEC_FULL §4.6.
var DefaultWeights = Weights{Wind: 0.35, Waves: 0.25, Visibility: 0.15, Distance: 0.25}

// Score rates route in place (mutating its Score, Warnings, Pros, Cons,
// and NoGoZoneViolations fields) given the boat sailing it; the distance
// sub-score compares route.DistanceNM with the great-circle distance
// between its first and last waypoint, which Score computes. Every
// waypoint must already have Weather attached (the orchestrator does
// this via grid interpolation before scoring).
func Score(route *routing.Route, boat routing.BoatProfile, table *polar.Table, weights Weights) error {
	if len(route.Waypoints) < 2 {
		return fmt.Errorf("scoring: route %q has fewer than 2 waypoints", route.Name)
	}

	directDist, err := geo.Distance(route.Waypoints[0].Position.ToGeo(), route.Waypoints[len(route.Waypoints)-1].Position.ToGeo())
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	var windSum, waveSum, visSum float64
	var violations []routing.NoGoViolation
	n := 0

	for i, wp := range route.Waypoints {
		if wp.Weather == nil {
			continue
		}
		n++

		// TWA off the bow for this waypoint's heading; default to a
		// neutral beam angle when no heading is attached (e.g. the
		// origin waypoint has no incoming segment).
		twa := 90.0
		if wp.Heading != nil {
			twa = geo.AngleDiff(*wp.Heading, wp.Weather.WindFromDeg)
		}

		windSum += windSubScore(boat, *wp.Weather, twa)
		waveSum += waveSubScore(boat, *wp.Weather)
		visSum += visibilitySubScore(*wp.Weather)

		if i > 0 && wp.Heading != nil && boat.Class.HasNoGoZone() {
			if table != nil && twa < table.NoGoDeg {
				violations = append(violations, routing.NoGoViolation{
					SegmentIndex: i - 1,
					HeadingDeg:   *wp.Heading,
					WindAngleDeg: twa,
				})
			}
		}
	}
	if n == 0 {
		return fmt.Errorf("scoring: route %q has no weather-attached waypoints", route.Name)
	}

	windScore := windSum / float64(n)
	waveScore := waveSum / float64(n)
	visScore := visSum / float64(n)
	distScore := distanceSubScore(route.DistanceNM, directDist)

	total := weights.Wind*windScore + weights.Waves*waveScore + weights.Visibility*visScore + weights.Distance*distScore
	route.Score = clampScore(int(total + 0.5))
	route.NoGoZoneViolations = violations

	route.Warnings = buildWarnings(boat, route, violations)
	route.Pros, route.Cons = buildProsCons(windScore, waveScore, visScore, distScore)

	return nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// windSubScore penalizes wind below the boat's minimum usable speed or
// above its safe maximum, then, for sailing craft, applies
// beamAngleFactor so the favorable beam/broad angles outscore dead
// upwind/downwind sailing at the same wind speed.
func windSubScore(boat routing.BoatProfile, w routing.WaypointWeather, twaDeg float64) float64 {
	base := 100.0
	switch {
	case w.WindSpeedKt < boat.MinUsableWindKt:
		deficit := (boat.MinUsableWindKt - w.WindSpeedKt) / max1(boat.MinUsableWindKt)
		base = clamp01(1-deficit) * 100
	case w.WindSpeedKt > boat.MaxSafeWindKt:
		excess := (w.WindSpeedKt - boat.MaxSafeWindKt) / max1(boat.MaxSafeWindKt)
		base = clamp01(1-excess) * 100
	}
	if boat.Class.HasNoGoZone() {
		base *= beamAngleFactor(twaDeg)
	}
	return clamp01(base / 100) * 100
}

// beamAngleFactor rewards beam/broad-reach angles (easiest, fastest
// points of sail) over close-hauled or dead-downwind angles at the same
// wind speed, per SPEC_FULL §4.6.
func beamAngleFactor(twaDeg float64) float64 {
	switch {
	case twaDeg >= 60 && twaDeg <= 135:
		return 1.0
	case twaDeg > 135:
		return 0.85 // dead downwind: slower, harder to hold a course
	default:
		return 0.9 // close-hauled: near the no-go zone
	}
}

// waveSubScore thresholds at 70% and 100% of the boat's max safe wave
// height: below 70% scores full marks, between 70% and 100% tapers
// linearly, above 100% is unsafe.
func waveSubScore(boat routing.BoatProfile, w routing.WaypointWeather) float64 {
	if boat.MaxSafeWaveHeightM <= 0 {
		return 100
	}
	ratio := w.WaveHeightM / boat.MaxSafeWaveHeightM
	switch {
	case ratio <= 0.7:
		return 100
	case ratio <= 1.0:
		return 100 * (1 - (ratio-0.7)/0.3*0.6) // tapers to 40 at the safety limit
	default:
		return clamp01(1-(ratio-1)) * 40
	}
}

func visibilitySubScore(w routing.WaypointWeather) float64 {
	const goodKm = 10.0
	if w.VisibilityKm >= goodKm {
		return 100
	}
	return clamp01(w.VisibilityKm/goodKm) * 100
}

// distanceSubScore rewards routes close to the great-circle distance
// between endpoints; a route twice as long as the direct path scores 0.
func distanceSubScore(routeDist, directDist float64) float64 {
	if directDist <= 0 {
		return 100
	}
	ratio := routeDist / directDist
	if ratio <= 1 {
		return 100
	}
	return clamp01(1-(ratio-1)) * 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func max1(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
