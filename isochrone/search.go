// isochrone/search.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package isochrone

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/util"
	"github.com/windtrace/routecast/weather"
)

// State is the isochrone search's lifecycle state, per SPEC_FULL §4.4.2.
type State int

const (
	StateInit State = iota
	StatePropagating
	StateGoalReached
	StateReconstructed
	StateExhausted
	StateTimeout
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StatePropagating:
		return "PROPAGATING"
	case StateGoalReached:
		return "GOAL_REACHED"
	case StateReconstructed:
		return "RECONSTRUCTED"
	case StateExhausted:
		return "EXHAUSTED"
	case StateTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Search holds the mutable state of one isochrone run. It is not safe
// for concurrent use by multiple callers; internally it parallelizes
// wave expansion across the current frontier.
type Search struct {
	cfg   Config
	boat  routing.BoatProfile
	table *polar.Table
	grid  *weather.Grid

	origin      geo.Coordinate
	goal        geo.Coordinate
	directBearing float64
	directDistNM  float64

	departure time.Time
	state     State

	frontier []*IsochronePoint
	solutions []*IsochronePoint
	arena    util.ObjectArena[IsochronePoint]
	arenaMu  sync.Mutex // guards arena: tryChild runs on expandWave's goroutines

	wave int
}

// NewSearch constructs a Search. cfg should already be Validate()'d.
func NewSearch(cfg Config, boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time) (*Search, error) {
	dist, err := geo.Distance(origin, goal)
	if err != nil {
		return nil, fmt.Errorf("isochrone: %w", err)
	}
	bearing, err := geo.Bearing(origin, goal)
	if err != nil {
		return nil, fmt.Errorf("isochrone: %w", err)
	}

	// Shrink the time step so the direct path spans at least
	// MinStepsAcrossRoute steps, per SPEC_FULL §4.4.1.
	if assumedSpeed := boat.AvgCruiseSpeedKt; assumedSpeed > 0 {
		directHours := dist / assumedSpeed
		minSteps := float64(cfg.MinStepsAcrossRoute)
		if directHours > 0 && directHours/cfg.TimeStepHours < minSteps {
			cfg.TimeStepHours = directHours / minSteps
			if cfg.PruneTimeBucketHours <= 0 {
				cfg.PruneTimeBucketHours = cfg.TimeStepHours
			}
		}
	}

	s := &Search{
		cfg: cfg, boat: boat, table: table, grid: grid,
		origin: origin, goal: goal,
		directBearing: bearing, directDistNM: dist,
		departure: departure,
		state:     StateInit,
	}
	return s, nil
}

// Run drives the search to completion (or cancellation/timeout) and
// returns every accepted solution.
func (s *Search) Run(ctx context.Context) ([]*IsochronePoint, State, error) {
	deadline := time.Now().Add(s.cfg.MaxWallTime)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	origin := s.arena.AllocClear()
	*origin = IsochronePoint{Position: s.origin, ElapsedHours: 0, CostHours: 0}
	s.frontier = []*IsochronePoint{origin}
	s.state = StatePropagating

	extraWavesLeft := -1 // -1 = goal not yet reached

	for {
		select {
		case <-ctx.Done():
			s.state = StateTimeout
			return s.solutions, s.state, nil
		default:
		}

		if s.wave >= s.cfg.MaxWaves {
			s.state = StateTimeout
			return s.solutions, s.state, nil
		}
		if len(s.frontier) == 0 {
			s.state = StateExhausted
			return s.solutions, s.state, nil
		}

		children, err := s.expandWave(ctx)
		if err != nil {
			return nil, s.state, err
		}
		s.wave++

		pruned := s.prune(children)
		s.frontier = pruned

		reached := s.collectGoalHits(pruned)
		if len(reached) > 0 {
			s.solutions = append(s.solutions, reached...)
		}

		// Every wave after the first goal hit uses up one of the
		// ExtraWavesAfterGoal waves, whether or not it finds new hits.
		if s.state == StateGoalReached {
			extraWavesLeft--
		} else if len(reached) > 0 {
			s.state = StateGoalReached
			extraWavesLeft = s.cfg.ExtraWavesAfterGoal
		}
		if s.state == StateGoalReached && extraWavesLeft <= 0 {
			s.state = StateReconstructed
			return s.solutions, s.state, nil
		}
	}
}

// expandWave computes every child of every surviving frontier point,
// data-parallel across parents via errgroup, per SPEC_FULL §4.4.3.
func (s *Search) expandWave(ctx context.Context) ([]*IsochronePoint, error) {
	results := make([][]*IsochronePoint, len(s.frontier))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0)) // CPU-bound fan-out, no I/O in this loop

	var mu sync.Mutex
	for i, parent := range s.frontier {
		i, parent := i, parent
		eg.Go(func() error {
			kids := s.expandParent(parent)
			mu.Lock()
			results[i] = kids
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []*IsochronePoint
	for _, kids := range results {
		all = append(all, kids...)
	}
	return all, nil
}

func (s *Search) expandParent(parent *IsochronePoint) []*IsochronePoint {
	w := s.grid.At(parent.Position, s.departure.Add(time.Duration(parent.ElapsedHours*float64(time.Hour))))

	parentDistToGoal, err := geo.Distance(parent.Position, s.goal)
	if err != nil {
		return nil
	}
	progress := 0.0
	if s.directDistNM > 0 {
		progress = 1 - parentDistToGoal/s.directDistNM
	}
	coneHalf := s.cfg.ConeHalfAngle(progress)
	upwind := isUpwind(s.directBearing, w.WindFromDeg)

	var kids []*IsochronePoint
	var bestOutsideConeHeading float64
	bestOutsideConeVMG := -1.0
	haveOutsideCone := false

	for h := 0.0; h < 360; h += s.cfg.AngularResolutionDeg {
		twa := geo.AngleDiff(h, w.WindFromDeg)
		u := polar.Speed(s.boat, s.table, w.WindSpeedKt, twa)
		if u < 0.1 {
			continue
		}

		insideCone := upwind || geo.AngleDiff(h, s.directBearing) <= coneHalf
		if !insideCone {
			// Track the best out-of-cone candidate for the tack exception
			// (SPEC_FULL §4.4.4): admitted only if nothing inside the cone
			// survives this parent.
			vmg := u * cosDeg(geo.AngleDiff(h, s.directBearing))
			if vmg > bestOutsideConeVMG {
				bestOutsideConeVMG = vmg
				bestOutsideConeHeading = h
				haveOutsideCone = true
			}
			continue
		}

		if child := s.tryChild(parent, h, u, parentDistToGoal); child != nil {
			kids = append(kids, child)
		}
	}

	if len(kids) == 0 && haveOutsideCone && bestOutsideConeVMG > 0 {
		w := s.grid.At(parent.Position, s.departure.Add(time.Duration(parent.ElapsedHours*float64(time.Hour))))
		twa := geo.AngleDiff(bestOutsideConeHeading, w.WindFromDeg)
		u := polar.Speed(s.boat, s.table, w.WindSpeedKt, twa)
		if child := s.tryChild(parent, bestOutsideConeHeading, u, parentDistToGoal); child != nil {
			kids = append(kids, child)
		}
	}

	return kids
}

func (s *Search) tryChild(parent *IsochronePoint, heading, speedKt, parentDistToGoal float64) *IsochronePoint {
	q, err := geo.Destination(parent.Position, heading, speedKt*s.cfg.TimeStepHours)
	if err != nil {
		return nil
	}
	childDistToGoal, err := geo.Distance(q, s.goal)
	if err != nil {
		return nil
	}

	minProgress := s.cfg.MinProgressFractionOfStep * speedKt * s.cfg.TimeStepHours
	if parentDistToGoal-childDistToGoal < minProgress {
		return nil
	}

	s.arenaMu.Lock()
	child := s.arena.AllocClear()
	s.arenaMu.Unlock()
	*child = IsochronePoint{
		Position:     q,
		ElapsedHours: parent.ElapsedHours + s.cfg.TimeStepHours,
		CostHours:    parent.CostHours + s.cfg.TimeStepHours,
		DistToGoalNM: childDistToGoal,
		Parent:       parent,
		HeadingTaken: heading,
		HasParent:    true,
	}
	return child
}

// prune applies the bucket-min, dominance-sweep, and per-wave-cap rules
// of SPEC_FULL §4.4.6.
func (s *Search) prune(children []*IsochronePoint) []*IsochronePoint {
	if len(children) == 0 {
		return nil
	}

	buckets := make(map[cellKey]*IsochronePoint, len(children))
	for _, c := range children {
		key := makeCellKey(c, s.cfg.PruneCellDeg, s.cfg.PruneTimeBucketHours)
		cur, ok := buckets[key]
		if !ok || c.CostHours < cur.CostHours ||
			(c.CostHours == cur.CostHours && c.DistToGoalNM < cur.DistToGoalNM) {
			buckets[key] = c
		}
	}

	survivors := make([]*IsochronePoint, 0, len(buckets))
	for _, c := range buckets {
		survivors = append(survivors, c)
	}

	// Dominance sweep: O(n^2) over the post-bucket set, which is already
	// much smaller than the raw child count.
	dominated := make([]bool, len(survivors))
	for i, a := range survivors {
		for j, b := range survivors {
			if i == j || dominated[i] {
				continue
			}
			if b.DistToGoalNM < a.DistToGoalNM && b.CostHours <= a.CostHours {
				dominated[i] = true
				break
			}
		}
	}
	kept := survivors[:0]
	for i, c := range survivors {
		if !dominated[i] {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].DistToGoalNM != kept[j].DistToGoalNM {
			return kept[i].DistToGoalNM < kept[j].DistToGoalNM
		}
		return kept[i].CostHours < kept[j].CostHours
	})
	if len(kept) > s.cfg.MaxSurvivingPerWave {
		kept = kept[:s.cfg.MaxSurvivingPerWave]
	}
	return kept
}

func (s *Search) collectGoalHits(pruned []*IsochronePoint) []*IsochronePoint {
	var hits []*IsochronePoint
	for _, c := range pruned {
		if c.DistToGoalNM <= s.cfg.GoalToleranceNM {
			hits = append(hits, c)
		}
	}
	return hits
}

func isUpwind(destBearing, windFromDeg float64) bool {
	return geo.AngleDiff(destBearing, windFromDeg) < 60
}

func cosDeg(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}
