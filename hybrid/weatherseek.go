// hybrid/weatherseek.go
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

const (
	weatherSeekOffsetFraction = 0.05
	weatherSeekOffsetMinNM    = 10
	weatherSeekOffsetMaxNM    = 50
)

// WeatherSeeking samples wind speed at two points offset perpendicular
// to the rhumb line from the route's midpoint, then curves the whole
// route toward whichever side has stronger wind by an offset equal to
// 5% of route length (capped 10-50 nm), per SPEC_FULL §4.5. The curved
// route is built as a single waypoint detour through the chosen offset
// point, then straight to the goal.
//
// Grounded on the teacher's wx.WindSpecifier perpendicular-sampling
// idiom in wx/wind.go, reused here for the offset-side decision.
func WeatherSeeking(boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time) (routing.Route, error) {
	totalDist, err := geo.Distance(origin, goal)
	if err != nil {
		return routing.Route{}, fmt.Errorf("hybrid: %w", err)
	}
	rhumbBearing, err := geo.Bearing(origin, goal)
	if err != nil {
		return routing.Route{}, err
	}

	offset := totalDist * weatherSeekOffsetFraction
	if offset < weatherSeekOffsetMinNM {
		offset = weatherSeekOffsetMinNM
	}
	if offset > weatherSeekOffsetMaxNM {
		offset = weatherSeekOffsetMaxNM
	}

	mid, err := geo.Destination(origin, rhumbBearing, totalDist/2)
	if err != nil {
		return routing.Route{}, err
	}

	portSample, err := geo.Destination(mid, geo.NormalizeBearing(rhumbBearing-90), offset)
	if err != nil {
		return routing.Route{}, err
	}
	starboardSample, err := geo.Destination(mid, geo.NormalizeBearing(rhumbBearing+90), offset)
	if err != nil {
		return routing.Route{}, err
	}

	midTime := departure.Add(time.Duration(totalDist / boat.AvgCruiseSpeedKt * float64(time.Hour) / 2))
	portWind := grid.At(portSample, midTime).WindSpeedKt
	starboardWind := grid.At(starboardSample, midTime).WindSpeedKt

	detourPoint := portSample
	side := "port"
	if starboardWind > portWind {
		detourPoint = starboardSample
		side = "starboard"
	}

	pos := origin
	elapsed := 0.0
	waypoints := []routing.Waypoint{{Position: routing.FromGeo(pos), ETA: departure}}

	for _, leg := range []geo.Coordinate{detourPoint, goal} {
		bearing, err := geo.Bearing(pos, leg)
		if err != nil {
			return routing.Route{}, err
		}
		dist, err := geo.Distance(pos, leg)
		if err != nil {
			return routing.Route{}, err
		}
		w := grid.At(pos, departure.Add(time.Duration(elapsed*float64(time.Hour))))
		speed := polar.Speed(boat, table, w.WindSpeedKt, geo.AngleDiff(bearing, w.WindFromDeg))
		if speed < 0.1 {
			speed = boat.AvgCruiseSpeedKt
		}
		elapsed += dist / speed

		h := bearing
		waypoints = append(waypoints, routing.Waypoint{
			Position: routing.FromGeo(leg),
			ETA:      departure.Add(time.Duration(elapsed * float64(time.Hour))),
			Heading:  &h,
		})
		pos = leg
	}

	return routing.Route{
		Name:           fmt.Sprintf("Weather-Seeking (%s)", side),
		Type:           routing.RouteDirect,
		DistanceNM:     totalWaypointDistance(waypoints),
		EstimatedHours: elapsed,
		EstimatedTime:  formatDuration(elapsed),
		Waypoints:      waypoints,
	}, nil
}
