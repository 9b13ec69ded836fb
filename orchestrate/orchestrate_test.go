// orchestrate/orchestrate_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package orchestrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/windtrace/routecast/isochrone"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/scoring"
	"github.com/windtrace/routecast/weather"
	"github.com/windtrace/routecast/rlog"
)

func testOrchestrator(t *testing.T, provider weather.Provider) *Orchestrator {
	t.Helper()
	return &Orchestrator{
		Log:             rlog.New("error", t.TempDir()),
		Provider:        provider,
		IsochroneConfig: isochrone.DefaultConfig(),
		ScoringWeights:  scoring.DefaultWeights,
		RequestTimeout:  20 * time.Second,
	}
}

func testRequest() routing.RouteRequest {
	return routing.RouteRequest{
		Start:         routing.Coordinate{Lat: 37.8, Lng: -122.4},
		End:           routing.Coordinate{Lat: 37.9, Lng: -122.1},
		BoatType:      routing.ClassSailboat,
		DepartureTime: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}

// A full Calculate against the calm mock provider returns between one and
// TopK scored routes, each waypoint carrying attached weather.
func TestCalculateProducesScoredRoutes(t *testing.T) {
	o := testOrchestrator(t, weather.NewCalmMockProvider())
	resp, err := o.Calculate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(resp.Routes) == 0 {
		t.Fatalf("expected at least one route")
	}
	if len(resp.Routes) > TopK {
		t.Errorf("expected at most %d routes, got %d", TopK, len(resp.Routes))
	}
	for _, r := range resp.Routes {
		for _, wp := range r.Waypoints {
			if wp.Weather == nil {
				t.Errorf("route %q has a waypoint with no attached weather", r.Name)
			}
		}
	}
}

// testable scenario 5: start == end must be rejected before any provider
// call, as a BadRequest.
func TestCalculateRejectsDegenerateRequest(t *testing.T) {
	o := testOrchestrator(t, weather.NewCalmMockProvider())
	req := testRequest()
	req.End = req.Start
	_, err := o.Calculate(context.Background(), req)
	if routing.KindOf(err) != routing.KindBadRequest {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

type failingProvider struct{ err error }

func (f failingProvider) FetchArea(ctx context.Context, bbox routing.Bounds, hours int, departure time.Time) (*weather.Grid, error) {
	return nil, f.err
}

// testable scenario 6: a provider failure must surface as ProviderUnavailable.
func TestCalculateSurfacesProviderFailure(t *testing.T) {
	o := testOrchestrator(t, failingProvider{err: errors.New("upstream unavailable")})
	_, err := o.Calculate(context.Background(), testRequest())
	if routing.KindOf(err) != routing.KindProviderUnavailable {
		t.Fatalf("expected ProviderUnavailable, got %v", err)
	}
}

func TestCalculateRejectsUnknownBoatType(t *testing.T) {
	o := testOrchestrator(t, weather.NewCalmMockProvider())
	req := testRequest()
	req.BoatType = "submarine"
	_, err := o.Calculate(context.Background(), req)
	if routing.KindOf(err) != routing.KindBadRequest {
		t.Fatalf("expected BadRequest for unknown boat type, got %v", err)
	}
}

func TestEstimateHorizonHoursClampsToBounds(t *testing.T) {
	if h := estimateHorizonHours(5, 6); h < 12 {
		t.Errorf("expected the floor to apply for a short trip, got %d", h)
	}
	if h := estimateHorizonHours(10000, 4); h > 241 {
		t.Errorf("expected the ceiling to apply for a very long trip, got %d", h)
	}
}
