// hybrid/tacking.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package hybrid

import (
	"fmt"
	"time"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/weather"
)

const closingLegThresholdNM = 10

// Tacking generates alternating-leg routes for an upwind scenario: legs
// close-hauled at the boat's optimal VMG angle off the wind, switching
// sides each leg, then a final closing leg aimed straight at the goal.
// The direct distance minus closingLegThresholdNM is split into legCount
// legs of equal length, each sailed along its tack heading; the legs are
// not partitioned along the rhumb line, and the closing leg starts
// wherever the last tack leg ends, which need not be within
// closingLegThresholdNM of the goal. legCount is the number of tacking
// legs before the close (2 or 4 per SPEC_FULL §4.5). Returns one route
// per starting tack (port-first and starboard-first).
func Tacking(boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time, legCount int) ([]routing.Route, error) {
	if legCount != 2 && legCount != 4 {
		legCount = 4
	}

	totalDist, err := geo.Distance(origin, goal)
	if err != nil {
		return nil, fmt.Errorf("hybrid: %w", err)
	}
	if totalDist <= closingLegThresholdNM {
		return nil, fmt.Errorf("hybrid: route too short to tack")
	}

	tackableDist := totalDist - closingLegThresholdNM
	legDist := tackableDist / float64(legCount)

	var routes []routing.Route
	for _, startSide := range []int{+1, -1} {
		route, err := buildTackingRoute(boat, table, grid, origin, goal, departure, legDist, legCount, startSide)
		if err != nil {
			continue
		}
		routes = append(routes, route)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("hybrid: no tack produced a usable route")
	}
	return routes, nil
}

// buildTackingRoute sails legCount close-hauled legs, alternating tack
// at each, then closes straight at the goal.
func buildTackingRoute(boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time, legDist float64, legCount, startSide int) (routing.Route, error) {
	pos := origin
	elapsed := 0.0
	waypoints := []routing.Waypoint{{Position: routing.FromGeo(pos), ETA: departure}}

	side := startSide
	for leg := 0; leg < legCount; leg++ {
		w := grid.At(pos, departure.Add(time.Duration(elapsed*float64(time.Hour))))
		heading := geo.NormalizeBearing(w.WindFromDeg + float64(side)*boat.OptimalVMGAngleDeg)

		speed := polar.Speed(boat, table, w.WindSpeedKt, geo.AngleDiff(heading, w.WindFromDeg))
		if speed < 0.1 {
			return routing.Route{}, fmt.Errorf("hybrid: no usable speed on tack leg %d", leg)
		}

		next, err := geo.Destination(pos, heading, legDist)
		if err != nil {
			return routing.Route{}, err
		}
		elapsed += legDist / speed

		h := heading
		waypoints = append(waypoints, routing.Waypoint{
			Position: routing.FromGeo(next),
			ETA:      departure.Add(time.Duration(elapsed * float64(time.Hour))),
			Heading:  &h,
		})
		pos = next
		side = -side
	}

	closingBearing, err := geo.Bearing(pos, goal)
	if err != nil {
		return routing.Route{}, err
	}
	closingDist, err := geo.Distance(pos, goal)
	if err != nil {
		return routing.Route{}, err
	}
	w := grid.At(pos, departure.Add(time.Duration(elapsed*float64(time.Hour))))
	speed := polar.Speed(boat, table, w.WindSpeedKt, geo.AngleDiff(closingBearing, w.WindFromDeg))
	if speed < 0.1 {
		speed = boat.AvgCruiseSpeedKt
	}
	elapsed += closingDist / speed

	h := closingBearing
	waypoints = append(waypoints, routing.Waypoint{
		Position: routing.FromGeo(goal),
		ETA:      departure.Add(time.Duration(elapsed * float64(time.Hour))),
		Heading:  &h,
	})

	routeType := routing.RoutePort
	name := "Tacking (port first)"
	if startSide < 0 {
		routeType = routing.RouteStarboard
		name = "Tacking (starboard first)"
	}

	distNM := totalWaypointDistance(waypoints)
	return routing.Route{
		Name:           name,
		Type:           routeType,
		DistanceNM:     distNM,
		EstimatedHours: elapsed,
		EstimatedTime:  formatDuration(elapsed),
		Waypoints:      waypoints,
	}, nil
}

func totalWaypointDistance(waypoints []routing.Waypoint) float64 {
	var total float64
	for i := 1; i < len(waypoints); i++ {
		d, err := geo.Distance(waypoints[i-1].Position.ToGeo(), waypoints[i].Position.ToGeo())
		if err == nil {
			total += d
		}
	}
	return total
}
