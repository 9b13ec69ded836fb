// scoring/narrative.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scoring

import (
	"fmt"

	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/util"
)

func buildWarnings(boat routing.BoatProfile, route *routing.Route, violations []routing.NoGoViolation) []string {
	var warnings []string
	if len(violations) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d segment(s) pass through the no-go zone for a %s", len(violations), boat.Class))
	}
	for _, wp := range route.Waypoints {
		if wp.Weather == nil {
			continue
		}
		if wp.Weather.WindSpeedKt > boat.MaxSafeWindKt {
			warnings = append(warnings, "wind exceeds the boat's safe maximum along part of this route")
			break
		}
	}
	for _, wp := range route.Waypoints {
		if wp.Weather == nil {
			continue
		}
		if wp.Weather.WaveHeightM > boat.MaxSafeWaveHeightM {
			warnings = append(warnings, "wave height exceeds the boat's safe maximum along part of this route")
			break
		}
	}
	return dedupe(warnings)
}

func buildProsCons(windScore, waveScore, visScore, distScore float64) (pros, cons []string) {
	const good, bad = 80.0, 50.0

	label := func(name string, score float64) {
		switch {
		case score >= good:
			pros = append(pros, fmt.Sprintf("favorable %s conditions", name))
		case score < bad:
			cons = append(cons, fmt.Sprintf("poor %s conditions", name))
		}
	}
	label("wind", windScore)
	label("wave", waveScore)
	label("visibility", visScore)
	label("distance efficiency", distScore)

	return pros, cons
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	return util.FilterSliceInPlace(in, func(s string) bool {
		if seen[s] {
			return false
		}
		seen[s] = true
		return true
	})
}
