// hybrid/vmg.go
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

const vmgStepNM = 10

// VMG generates a single route by repeated VMG steps: at each step,
// resample wind at the current position and sail up to vmgStepNM along
// the polar's optimal VMG heading toward the destination bearing. The
// last step is shortened to the remaining distance but still follows
// the VMG heading rather than closing straight on the goal; stepping
// stops once within 0.5 nm of the goal or after maxSteps steps.
func VMG(boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time) (routing.Route, error) {
	pos := origin
	elapsed := 0.0
	waypoints := []routing.Waypoint{{Position: routing.FromGeo(pos), ETA: departure}}

	const maxSteps = 500
	for step := 0; step < maxSteps; step++ {
		remaining, err := geo.Distance(pos, goal)
		if err != nil {
			return routing.Route{}, err
		}
		if remaining <= 0.5 {
			break
		}

		destBearing, err := geo.Bearing(pos, goal)
		if err != nil {
			return routing.Route{}, err
		}
		w := grid.At(pos, departure.Add(time.Duration(elapsed*float64(time.Hour))))
		heading, vmgKt := polar.OptimalVMGHeading(boat, table, w.WindSpeedKt, destBearing, w.WindFromDeg)
		if vmgKt <= 0 {
			return routing.Route{}, fmt.Errorf("hybrid: no positive VMG available at step %d", step)
		}

		stepDist := vmgStepNM
		if remaining < stepDist {
			stepDist = remaining
		}
		speed := polar.Speed(boat, table, w.WindSpeedKt, geo.AngleDiff(heading, w.WindFromDeg))
		if speed < 0.1 {
			return routing.Route{}, fmt.Errorf("hybrid: stalled at step %d", step)
		}

		next, err := geo.Destination(pos, heading, stepDist)
		if err != nil {
			return routing.Route{}, err
		}
		elapsed += stepDist / speed

		h := heading
		waypoints = append(waypoints, routing.Waypoint{
			Position: routing.FromGeo(next),
			ETA:      departure.Add(time.Duration(elapsed * float64(time.Hour))),
			Heading:  &h,
		})
		pos = next
	}

	return routing.Route{
		Name:           "VMG Direct",
		Type:           routing.RouteDirect,
		DistanceNM:     totalWaypointDistance(waypoints),
		EstimatedHours: elapsed,
		EstimatedTime:  formatDuration(elapsed),
		Waypoints:      waypoints,
	}, nil
}
