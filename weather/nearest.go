// weather/nearest.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package weather

import (
	"github.com/windtrace/routecast/geo"
)

// nearestIndexTree is a small 2D KD-tree over a Grid's lat/lng sample
// points, used to find the closest in-grid sample to a query point that
// falls outside the bounding box by more than simple edge-clamping can
// sensibly handle (e.g. a hybrid route leg that overshoots the corridor).
//
// Supplemented per SPEC_FULL §12 from the teacher's former
// math/kdtree.go (now removed from this tree along with the rest of
// math/, since its Point2LL/aviation DMS type had no home here); the
// balanced-median-split construction and recursive nearest-neighbor
// search are the same idiom, rebuilt against geo.Coordinate.
type nearestIndexTree struct {
	root *kdNode
}

type kdNode struct {
	point       geo.Coordinate
	latIdx, lngIdx int
	left, right *kdNode
}

type indexedPoint struct {
	point          geo.Coordinate
	latIdx, lngIdx int
}

// newNearestIndexTree builds a tree over every (lat,lng) grid cell so
// callers can map an arbitrary position back to its nearest sample
// indices.
func newNearestIndexTree(lats, lngs []float64) *nearestIndexTree {
	pts := make([]indexedPoint, 0, len(lats)*len(lngs))
	for li, lat := range lats {
		for lj, lng := range lngs {
			pts = append(pts, indexedPoint{point: geo.Coordinate{Lat: lat, Lng: lng}, latIdx: li, lngIdx: lj})
		}
	}
	return &nearestIndexTree{root: buildKD(pts, 0)}
}

func buildKD(pts []indexedPoint, depth int) *kdNode {
	if len(pts) == 0 {
		return nil
	}
	axis := depth % 2
	sortByAxis(pts, axis)
	mid := len(pts) / 2
	n := &kdNode{point: pts[mid].point, latIdx: pts[mid].latIdx, lngIdx: pts[mid].lngIdx}
	n.left = buildKD(pts[:mid], depth+1)
	n.right = buildKD(pts[mid+1:], depth+1)
	return n
}

// sortByAxis is an insertion sort: grid axis counts are small (tens to
// low hundreds of points), so this stays simple and allocation-free
// rather than pulling in sort.Slice with a closure per call.
func sortByAxis(pts []indexedPoint, axis int) {
	key := func(p indexedPoint) float64 {
		if axis == 0 {
			return p.point.Lat
		}
		return p.point.Lng
	}
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && key(pts[j-1]) > key(pts[j]); j-- {
			pts[j-1], pts[j] = pts[j], pts[j-1]
		}
	}
}

// nearest returns the grid indices of the sample closest to q.
func (t *nearestIndexTree) nearest(q geo.Coordinate) (latIdx, lngIdx int) {
	if t.root == nil {
		return 0, 0
	}
	best := t.root
	bestDist := sqDist(q, t.root.point)
	searchKD(t.root, q, 0, &best, &bestDist)
	return best.latIdx, best.lngIdx
}

func searchKD(n *kdNode, q geo.Coordinate, depth int, best **kdNode, bestDist *float64) {
	if n == nil {
		return
	}
	d := sqDist(q, n.point)
	if d < *bestDist {
		*bestDist = d
		*best = n
	}

	axis := depth % 2
	var diff float64
	var near, far *kdNode
	if axis == 0 {
		diff = q.Lat - n.point.Lat
	} else {
		diff = q.Lng - n.point.Lng
	}
	if diff <= 0 {
		near, far = n.left, n.right
	} else {
		near, far = n.right, n.left
	}

	searchKD(near, q, depth+1, best, bestDist)
	if diff*diff < *bestDist {
		searchKD(far, q, depth+1, best, bestDist)
	}
}

func sqDist(a, b geo.Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}
