// isochrone/reconstruct.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package isochrone

import (
	"fmt"
	"math"
	"time"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/routing"
)

// Reconstruct walks each solution's parent chain back to the origin and
// builds a labelled Route skeleton (weather not yet attached — that is
// the orchestrator's job once it interpolates the shared grid).
// Solutions within 1% cost and spatially similar to an earlier one are
// dropped, per SPEC_FULL §4.4.7.
func Reconstruct(solutions []*IsochronePoint, departure time.Time) []routing.Route {
	routes := make([]routing.Route, 0, len(solutions))
	for i, sol := range solutions {
		if isNearDuplicate(sol, solutions[:i]) {
			continue
		}
		name := "Isochrone Fastest"
		if len(routes) > 0 {
			name = fmt.Sprintf("Isochrone Alternate %d", len(routes))
		}
		routes = append(routes, buildRoute(sol, departure, name))
	}
	return routes
}

func buildRoute(sol *IsochronePoint, departure time.Time, name string) routing.Route {
	var chain []*IsochronePoint
	for p := sol; p != nil; {
		chain = append(chain, p)
		if !p.HasParent {
			break
		}
		p = p.Parent
	}
	// chain is goal -> ... -> origin; reverse it.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	waypoints := make([]routing.Waypoint, 0, len(chain))
	var distNM float64
	for i, p := range chain {
		wp := routing.Waypoint{
			Position: routing.FromGeo(p.Position),
			ETA:      departure.Add(time.Duration(p.ElapsedHours * float64(time.Hour))),
		}
		if i > 0 {
			h := p.HeadingTaken
			wp.Heading = &h
			if seg, err := geo.Distance(chain[i-1].Position, p.Position); err == nil {
				distNM += seg
			}
		}
		waypoints = append(waypoints, wp)
	}

	last := chain[len(chain)-1]
	return routing.Route{
		Name:            name,
		Type:            routing.RouteDirect,
		DistanceNM:      distNM,
		EstimatedHours:  last.ElapsedHours,
		EstimatedTime:   formatDuration(last.ElapsedHours),
		Waypoints:       waypoints,
	}
}

func formatDuration(hours float64) string {
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

// isNearDuplicate implements the spatial-similarity proxy from
// SPEC_FULL §4.4.7: two solutions are "the same route" if their costs
// differ by less than 1% and their final positions are within 1 nm of
// each other (a cheap Fréchet-like stand-in — full curve
// comparison is unnecessary here since isochrone solutions already share
// an origin).
func isNearDuplicate(candidate *IsochronePoint, earlier []*IsochronePoint) bool {
	for _, e := range earlier {
		if e.CostHours == 0 {
			continue
		}
		costDiff := math.Abs(candidate.CostHours-e.CostHours) / e.CostHours
		if costDiff > 0.01 {
			continue
		}
		if d, err := geo.Distance(candidate.Position, e.Position); err == nil && d < 1.0 {
			return true
		}
	}
	return false
}
