// scoring/scoring_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scoring

import (
	"testing"
	"time"

	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/routing"
)

func routeWithWeather(weathers ...routing.WaypointWeather) routing.Route {
	wps := make([]routing.Waypoint, len(weathers))
	now := time.Now()
	for i, w := range weathers {
		w := w
		h := 90.0
		wps[i] = routing.Waypoint{
			Position: routing.Coordinate{Lat: float64(i) * 0.1, Lng: 0},
			ETA:      now.Add(time.Duration(i) * time.Hour),
			Weather:  &w,
		}
		if i > 0 {
			wps[i].Heading = &h
		}
	}
	return routing.Route{Name: "test", Waypoints: wps, DistanceNM: 10}
}

func TestScoreGoodConditionsScoresHigh(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassSailboat)
	table := polar.BuiltinTable(routing.ClassSailboat)
	good := routing.WaypointWeather{WindSpeedKt: 12, WaveHeightM: 0.5, VisibilityKm: 15}
	route := routeWithWeather(good, good)
	// The two waypoints are 0.1 deg of latitude (~6 nm) apart; match the
	// route distance to that so the distance sub-score is not penalized.
	route.DistanceNM = 6

	if err := Score(&route, boat, table, DefaultWeights); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if route.Score < 80 {
		t.Errorf("expected a high score in good conditions, got %d", route.Score)
	}
	if len(route.Cons) != 0 {
		t.Errorf("expected no cons in good conditions, got %v", route.Cons)
	}
}

func TestScoreUnsafeWindScoresLowAndWarns(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassSailboat)
	table := polar.BuiltinTable(routing.ClassSailboat)
	bad := routing.WaypointWeather{WindSpeedKt: boat.MaxSafeWindKt + 20, WaveHeightM: 0.5, VisibilityKm: 15}
	route := routeWithWeather(bad, bad)

	if err := Score(&route, boat, table, DefaultWeights); err != nil {
		t.Fatalf("Score: %v", err)
	}
	// Wind carries 35% of the weight: 20 kt over the safe limit gives a
	// wind sub-score of ~43, and with the helper's 10 nm over ~6 nm of
	// waypoints (distance sub-score ~33) the total comes to 63.
	if route.Score > 65 {
		t.Errorf("expected a low score in unsafe wind, got %d", route.Score)
	}
	found := false
	for _, w := range route.Warnings {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected at least one warning, got none")
	}
}

func TestScoreFlagsNoGoViolationsWithoutZeroingScore(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassSailboat)
	table := polar.BuiltinTable(routing.ClassSailboat)
	// Wind from 90, heading 90 (set in routeWithWeather) -> TWA 0, inside
	// the sailboat's no-go zone.
	w := routing.WaypointWeather{WindSpeedKt: 12, WindFromDeg: 90, WaveHeightM: 0.5, VisibilityKm: 15}
	route := routeWithWeather(w, w)

	if err := Score(&route, boat, table, DefaultWeights); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(route.NoGoZoneViolations) == 0 {
		t.Errorf("expected at least one no-go violation")
	}
	if route.Score == 0 {
		t.Errorf("no-go violations should not zero the score")
	}
}

func TestScoreRejectsRouteWithoutWeather(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassSailboat)
	table := polar.BuiltinTable(routing.ClassSailboat)
	route := routing.Route{Name: "bare", Waypoints: []routing.Waypoint{{}, {}}}
	if err := Score(&route, boat, table, DefaultWeights); err == nil {
		t.Errorf("expected an error scoring a route with no attached weather")
	}
}

func TestWindSubScoreFavorsBeamOverDeadDownwind(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassSailboat)
	w := routing.WaypointWeather{WindSpeedKt: 12}

	beam := windSubScore(boat, w, 90)
	downwind := windSubScore(boat, w, 180)
	upwind := windSubScore(boat, w, 20)

	if beam <= downwind {
		t.Errorf("expected a beam-angle waypoint (%v) to outscore dead downwind (%v) at the same wind speed", beam, downwind)
	}
	if beam <= upwind {
		t.Errorf("expected a beam-angle waypoint (%v) to outscore close-hauled upwind (%v) at the same wind speed", beam, upwind)
	}
}

func TestWindSubScoreIgnoresAngleForMotorboats(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassMotorboat)
	w := routing.WaypointWeather{WindSpeedKt: 12}

	beam := windSubScore(boat, w, 90)
	downwind := windSubScore(boat, w, 180)
	if beam != downwind {
		t.Errorf("expected motorboat wind scoring to ignore TWA, got beam=%v downwind=%v", beam, downwind)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	boat := polar.BuiltinProfile(routing.ClassSailboat)
	table := polar.BuiltinTable(routing.ClassSailboat)
	w := routing.WaypointWeather{WindSpeedKt: 14, WaveHeightM: 1, VisibilityKm: 12}

	r1 := routeWithWeather(w, w, w)
	r2 := routeWithWeather(w, w, w)
	if err := Score(&r1, boat, table, DefaultWeights); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if err := Score(&r2, boat, table, DefaultWeights); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if r1.Score != r2.Score {
		t.Errorf("scoring the same route twice gave different scores: %d vs %d", r1.Score, r2.Score)
	}
}
