// orchestrate/orchestrate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package orchestrate wires weather, polar, isochrone, hybrid, and
// scoring together behind a single request/response contract, per
// SPEC_FULL §4.7.
package orchestrate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/windtrace/routecast/geo"
	"github.com/windtrace/routecast/hybrid"
	"github.com/windtrace/routecast/isochrone"
	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/rlog"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/scoring"
	"github.com/windtrace/routecast/util"
	"github.com/windtrace/routecast/weather"
)

// TopK is the number of routes returned to the caller, per SPEC_FULL §4.7.
const TopK = 3

// Orchestrator is constructed once (in cmd/routecastd) and carries its
// collaborators as explicit fields, grounded on the teacher's
// launchHTTPServer dependency-passing style in server/http.go — no
// package-level globals.
type Orchestrator struct {
	Log             *rlog.Logger
	Provider        weather.Provider
	IsochroneConfig isochrone.Config
	ScoringWeights  scoring.Weights

	// RequestTimeout bounds the whole request; each isochrone search is
	// additionally bounded by IsochroneConfig.MaxWallTime.
	RequestTimeout time.Duration
}

// Tables resolves a boat class to its polar table and default profile.
// A real deployment would load these from configuration; the contract
// in SPEC_FULL §6 ("static table per boat class shipped with the
// binary") is satisfied here by polar.Builtin{Table,Profile}.
type Tables interface {
	Table(class routing.BoatClass) *polar.Table
	Profile(class routing.BoatClass) routing.BoatProfile
}

type builtinTables struct{}

func (builtinTables) Table(class routing.BoatClass) *polar.Table     { return polar.BuiltinTable(class) }
func (builtinTables) Profile(class routing.BoatClass) routing.BoatProfile { return polar.BuiltinProfile(class) }

// BuiltinTables is the default Tables implementation.
var BuiltinTables Tables = builtinTables{}

// Calculate runs the full pipeline for one request: steps 1-7 of
// SPEC_FULL §4.7.
func (o *Orchestrator) Calculate(ctx context.Context, req routing.RouteRequest) (routing.RouteResponse, error) {
	if err := req.Validate(); err != nil {
		return routing.RouteResponse{}, err
	}

	if o.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.RequestTimeout)
		defer cancel()
	}

	boat := BuiltinTables.Profile(req.BoatType)
	table := BuiltinTables.Table(req.BoatType)

	origin := req.Start.ToGeo()
	goal := req.End.ToGeo()

	directDist, err := geo.Distance(origin, goal)
	if err != nil {
		return routing.RouteResponse{}, routing.NewError(routing.KindBadRequest, "invalid coordinates", err)
	}
	horizonHours := estimateHorizonHours(directDist, boat.AvgCruiseSpeedKt)

	bbox := weather.BoundingBox(origin, goal, weather.CorridorPadDeg)
	grid, err := o.Provider.FetchArea(ctx, bbox, horizonHours, req.DepartureTime)
	if err != nil {
		return routing.RouteResponse{}, routing.NewError(routing.KindProviderUnavailable, "weather provider fetch failed", err)
	}

	var isoRoutes, hybridRoutes []routing.Route
	var isoErr, hybridErr error
	var diagNotes []string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		isoRoutes, isoErr = o.runIsochrone(egCtx, boat, table, grid, origin, goal, req.DepartureTime)
		return nil // isochrone failures are recorded, not fatal (hybrid may still succeed)
	})
	eg.Go(func() error {
		hybridRoutes, hybridErr = hybrid.Generate(boat, table, grid, origin, goal, req.DepartureTime)
		return nil
	})
	eg.Wait() //nolint:errcheck // both goroutines always return nil; errors are carried out-of-band above

	if isoErr != nil {
		o.Log.Warnf("isochrone search failed: %v", isoErr)
		diagNotes = append(diagNotes, fmt.Sprintf("isochrone search unavailable: %v", isoErr))
	}
	if hybridErr != nil {
		o.Log.Warnf("hybrid generator failed: %v", hybridErr)
		diagNotes = append(diagNotes, fmt.Sprintf("hybrid generator unavailable: %v", hybridErr))
	}

	all := append(isoRoutes, hybridRoutes...)
	if len(all) == 0 {
		return o.emptyResponse(grid, diagNotes), nil
	}

	attachWeather(all, grid, req.DepartureTime)

	weights := o.ScoringWeights
	if weights == (scoring.Weights{}) {
		weights = scoring.DefaultWeights
	}
	scored := make([]routing.Route, 0, len(all))
	for i := range all {
		r := all[i]
		if err := scoring.Score(&r, boat, table, weights); err != nil {
			o.Log.Warnf("scoring route %q failed: %v", r.Name, err)
			continue
		}
		scored = append(scored, r)
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > TopK {
		scored = scored[:TopK]
	}

	resp := routing.RouteResponse{
		Routes:       scored,
		WeatherGrid:  buildGridView(grid),
		CalculatedAt: time.Now(),
	}
	if len(diagNotes) > 0 {
		resp.Diagnostics = &routing.Diagnostics{Notes: diagNotes}
	}
	return resp, nil
}

func (o *Orchestrator) runIsochrone(ctx context.Context, boat routing.BoatProfile, table *polar.Table, grid *weather.Grid, origin, goal geo.Coordinate, departure time.Time) ([]routing.Route, error) {
	cfg, err := o.IsochroneConfig.Validate()
	if err != nil {
		return nil, err
	}
	search, err := isochrone.NewSearch(cfg, boat, table, grid, origin, goal, departure)
	if err != nil {
		return nil, err
	}
	solutions, state, err := search.Run(ctx)
	if err != nil {
		return nil, err
	}
	if len(solutions) == 0 {
		if state == isochrone.StateExhausted {
			return nil, routing.ErrUnreachable
		}
		return nil, routing.ErrSearchTimeout
	}
	return isochrone.Reconstruct(solutions, departure), nil
}

func (o *Orchestrator) emptyResponse(grid *weather.Grid, notes []string) routing.RouteResponse {
	notes = append(notes, "no routes could be generated for this request")
	return routing.RouteResponse{
		Routes:       []routing.Route{},
		WeatherGrid:  buildGridView(grid),
		CalculatedAt: time.Now(),
		Diagnostics:  &routing.Diagnostics{Notes: notes},
	}
}

func attachWeather(routes []routing.Route, grid *weather.Grid, departure time.Time) {
	for i := range routes {
		for j := range routes[i].Waypoints {
			wp := &routes[i].Waypoints[j]
			w := grid.At(wp.Position.ToGeo(), wp.ETA)
			wp.Weather = &w
		}
	}
}

func buildGridView(grid *weather.Grid) routing.WeatherGridView {
	b := grid.Bounds()
	points := grid.GridPoints()
	times := grid.Times()

	withWeather := make([]routing.GridPointWeather, len(points))
	for i, p := range points {
		hourly := make([]routing.WaypointWeather, len(times))
		for j, t := range times {
			hourly[j] = grid.At(p, t)
		}
		withWeather[i] = routing.GridPointWeather{Position: routing.FromGeo(p), Hourly: hourly}
	}

	return routing.WeatherGridView{
		GridPoints:            util.MapSlice(points, routing.FromGeo),
		Bounds:                b,
		Times:                 times,
		GridPointsWithWeather: withWeather,
	}
}

// estimateHorizonHours sizes the forecast horizon from a naive
// direct-distance ETA, padded generously so tacking/search detours stay
// within the fetched window.
func estimateHorizonHours(directDistNM, cruiseSpeedKt float64) int {
	if cruiseSpeedKt <= 0 {
		cruiseSpeedKt = 5
	}
	hours := directDistNM / cruiseSpeedKt * 1.5
	if hours < 12 {
		hours = 12
	}
	if hours > 240 {
		hours = 240
	}
	return int(hours) + 1
}
