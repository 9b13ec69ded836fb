// routing/envelope.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routing

import "time"

// RouteRequest is the decoded POST /calculate-routes body.
type RouteRequest struct {
	Start          Coordinate `json:"start"`
	End            Coordinate `json:"end"`
	BoatType       BoatClass  `json:"boat_type"`
	DepartureTime  time.Time  `json:"departure_time"`
}

// Validate checks the request against §4.7 step 1 / testable scenario 5:
// coordinates in range, a known boat class, and start != end.
func (r RouteRequest) Validate() error {
	if !r.Start.Valid() || !r.End.Valid() {
		return NewError(KindBadRequest, "start/end coordinates out of range", nil)
	}
	if !r.BoatType.Valid() {
		return NewError(KindBadRequest, "unknown boat_type "+string(r.BoatType), nil)
	}
	if r.Start == r.End {
		return NewError(KindBadRequest, "start and end are the same point", nil)
	}
	if r.DepartureTime.IsZero() {
		return NewError(KindBadRequest, "missing departure_time", nil)
	}
	return nil
}

// GridPointWeather is one (grid point, hour) weather sample for the
// response's visualization payload.
type GridPointWeather struct {
	Position Coordinate        `json:"position"`
	Hourly   []WaypointWeather `json:"hourly"` // indexed in parallel with WeatherGridView.Times
}

// Bounds is a padded bounding box around the route corridor.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// WeatherGridView is the public, JSON-shaped projection of the internal
// weather grid, returned alongside routes for client-side visualization.
type WeatherGridView struct {
	GridPoints            []Coordinate       `json:"gridPoints"`
	Bounds                Bounds             `json:"bounds"`
	Times                 []time.Time        `json:"times"`
	GridPointsWithWeather []GridPointWeather `json:"gridPointsWithWeather"`
}

// Diagnostics carries non-fatal notes about the computation (e.g. a
// SearchTimeout downgrade, or an Unreachable isochrone covered by a
// surviving hybrid route).
type Diagnostics struct {
	Notes []string `json:"notes,omitempty"`
}

// RouteResponse is the full POST /calculate-routes response body.
type RouteResponse struct {
	Routes       []Route          `json:"routes"`
	WeatherGrid  WeatherGridView  `json:"weatherGrid"`
	CalculatedAt time.Time        `json:"calculatedAt"`
	Diagnostics  *Diagnostics     `json:"diagnostics,omitempty"`
}
