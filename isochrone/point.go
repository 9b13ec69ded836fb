// isochrone/point.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package isochrone

import (
	"math"

	"github.com/windtrace/routecast/geo"
)

// IsochronePoint is one node of the search frontier: a reachable
// position at a given elapsed time, with enough back-pointer state to
// reconstruct the route once a point reaches the goal.
//
// Per the design note in SPEC_FULL §9, points are allocated from a
// per-search util.ObjectArena and referenced by parent *IsochronePoint
// pointer rather than by value. A wave's children are built
// data-parallel; the arena itself is not safe for concurrent use, so
// Search serializes each allocation with its arenaMu mutex.
type IsochronePoint struct {
	Position     geo.Coordinate
	ElapsedHours float64
	CostHours    float64
	DistToGoalNM float64
	Parent       *IsochronePoint
	HeadingTaken float64 // degrees; heading that produced this point from its parent
	HasParent    bool
}

// cellKey buckets a point for pruning by (lat cell, lng cell, time
// bucket). Grounded on the teacher's compact-value-type map key idiom
// (its KD-tree point type plays the same "small struct used directly as
// a map key" role); int32 keeps the map's hash cheap relative to a
// float64 triple.
type cellKey struct {
	latCell, lngCell, timeBucket int32
}

func makeCellKey(p *IsochronePoint, cellDeg, timeBucketHours float64) cellKey {
	return cellKey{
		latCell:    int32(floorDiv(p.Position.Lat, cellDeg)),
		lngCell:    int32(floorDiv(p.Position.Lng, cellDeg)),
		timeBucket: int32(floorDiv(p.ElapsedHours, timeBucketHours)),
	}
}

func floorDiv(v, step float64) float64 {
	return math.Floor(v / step)
}
