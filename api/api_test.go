// api/api_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/windtrace/routecast/isochrone"
	"github.com/windtrace/routecast/orchestrate"
	"github.com/windtrace/routecast/rlog"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/scoring"
	"github.com/windtrace/routecast/weather"
)

func testServer(t *testing.T, provider weather.Provider) *Server {
	t.Helper()
	log := rlog.New("error", t.TempDir())
	o := &orchestrate.Orchestrator{
		Log:             log,
		Provider:        provider,
		IsochroneConfig: isochrone.DefaultConfig(),
		ScoringWeights:  scoring.DefaultWeights,
		RequestTimeout:  20 * time.Second,
	}
	return NewServer(o, log)
}

func validBody() []byte {
	req := routing.RouteRequest{
		Start:         routing.Coordinate{Lat: 37.8, Lng: -122.4},
		End:           routing.Coordinate{Lat: 37.9, Lng: -122.1},
		BoatType:      routing.ClassSailboat,
		DepartureTime: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	b, _ := json.Marshal(req)
	return b
}

func TestHandleCalculateRoutesReturnsScoredRoutes(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	req := httptest.NewRequest(http.MethodPost, "/calculate-routes", bytes.NewReader(validBody()))
	w := httptest.NewRecorder()

	s.withRecovery(s.withCorrelationID(s.handleCalculateRoutes))(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp routing.RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Routes) == 0 {
		t.Errorf("expected at least one route in the response")
	}
}

func TestHandleCalculateRoutesRejectsDuplicateKeys(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	body := []byte(`{"start":{"lat":1,"lng":2},"start":{"lat":3,"lng":4},"end":{"lat":5,"lng":6},"boat_type":"sailboat","departure_time":"2026-07-01T12:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/calculate-routes", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.withRecovery(s.withCorrelationID(s.handleCalculateRoutes))(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a duplicate JSON key, got %d", w.Code)
	}
}

func TestHandleCalculateRoutesRejectsMalformedBody(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	req := httptest.NewRequest(http.MethodPost, "/calculate-routes", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	s.withRecovery(s.withCorrelationID(s.handleCalculateRoutes))(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}
}

type failingProvider struct{}

func (failingProvider) FetchArea(ctx context.Context, bbox routing.Bounds, hours int, departure time.Time) (*weather.Grid, error) {
	return nil, errors.New("provider down")
}

func TestHandleCalculateRoutesMapsProviderFailureTo502(t *testing.T) {
	s := testServer(t, failingProvider{})
	req := httptest.NewRequest(http.MethodPost, "/calculate-routes", bytes.NewReader(validBody()))
	w := httptest.NewRecorder()

	s.withRecovery(s.withCorrelationID(s.handleCalculateRoutes))(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for a provider failure, got %d", w.Code)
	}
}

func TestHandleHealthzReportsOK(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	s.handleHealthz(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHandleHealthzReportsDrainingAfterShutdown(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	s.Shutdown()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	s.handleHealthz(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 once draining, got %d", w.Code)
	}
}

func TestHandlePolarTableReturnsOrderedTable(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	req := httptest.NewRequest(http.MethodGet, "/polar-table?boat_type=sailboat", nil)
	w := httptest.NewRecorder()

	s.handlePolarTable(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := decoded["table"]; !ok {
		t.Errorf("expected a \"table\" key in the response, got %v", decoded)
	}
}

func TestHandlePolarTableRejectsUnknownBoatType(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	req := httptest.NewRequest(http.MethodGet, "/polar-table?boat_type=kayak", nil)
	w := httptest.NewRecorder()

	s.handlePolarTable(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown boat_type, got %d", w.Code)
	}
}

func TestHandleStatsRendersHTML(t *testing.T) {
	s := testServer(t, weather.NewCalmMockProvider())
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()

	s.handleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Errorf("expected a Content-Type header on the stats page")
	}
}

func TestStatusForKindMapsEveryKind(t *testing.T) {
	cases := map[routing.Kind]int{
		routing.KindBadRequest:          http.StatusBadRequest,
		routing.KindProviderUnavailable: http.StatusBadGateway,
		routing.KindProviderTimeout:     http.StatusGatewayTimeout,
		routing.KindSearchTimeout:       http.StatusGatewayTimeout,
		routing.KindUnreachable:         http.StatusOK,
		routing.KindInternal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := statusForKind(kind); got != want {
			t.Errorf("statusForKind(%s) = %d, want %d", kind, got, want)
		}
	}
}
