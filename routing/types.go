// routing/types.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package routing holds the data model shared by the isochrone,
// hybrid, scoring, and orchestrate packages: the JSON-shaped request and
// response envelopes, the route/waypoint/weather types they all produce
// and consume, and boat performance profiles.
package routing

import (
	"time"

	"github.com/windtrace/routecast/geo"
)

// Coordinate is a point on the Earth's surface, lat in [-90,90] and lng
// in [-180,180]. Immutable once constructed.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToGeo converts to the geo package's coordinate type for spherical math.
func (c Coordinate) ToGeo() geo.Coordinate {
	return geo.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

// FromGeo converts a geo.Coordinate back to a routing.Coordinate.
func FromGeo(c geo.Coordinate) Coordinate {
	return Coordinate{Lat: c.Lat, Lng: c.Lng}
}

// Valid reports whether the coordinate is within the valid lat/lng
// domain.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// WaypointWeather is the interpolated weather at a waypoint's position
// and time.
type WaypointWeather struct {
	WindSpeedKt     float64 `json:"windSpeedKt"`
	WindSustainedKt float64 `json:"windSustainedKt"`
	WindGustKt      float64 `json:"windGustKt"`
	WindFromDeg     float64 `json:"windFromDeg"` // meteorological "from" convention
	WaveHeightM     float64 `json:"waveHeightM"`
	PrecipMMPerHr   float64 `json:"precipMmPerHr"`
	VisibilityKm    float64 `json:"visibilityKm"`
	TemperatureC    float64 `json:"temperatureC"`
}

// Waypoint is one point along a generated route.
type Waypoint struct {
	Position Coordinate       `json:"position"`
	ETA      time.Time        `json:"eta"`
	Heading  *float64         `json:"heading,omitempty"` // course made good from the previous waypoint; nil at origin
	Weather  *WaypointWeather `json:"weather,omitempty"` // attached post-generation by grid interpolation
}

// BoatClass enumerates the supported boat types.
type BoatClass string

const (
	ClassSailboat  BoatClass = "sailboat"
	ClassMotorboat BoatClass = "motorboat"
	ClassCatamaran BoatClass = "catamaran"
)

// Valid reports whether c is one of the known boat classes.
func (c BoatClass) Valid() bool {
	switch c {
	case ClassSailboat, ClassMotorboat, ClassCatamaran:
		return true
	}
	return false
}

// HasNoGoZone reports whether the class has a wind no-go zone (motorboats
// do not).
func (c BoatClass) HasNoGoZone() bool {
	return c != ClassMotorboat
}

// BoatProfile describes a boat's performance envelope, independent of
// the polar table used to compute instantaneous speed.
type BoatProfile struct {
	Class             BoatClass `json:"class"`
	AvgCruiseSpeedKt  float64   `json:"avgCruiseSpeedKt"`
	MaxCruiseSpeedKt  float64   `json:"maxCruiseSpeedKt"`
	OptimalVMGAngleDeg float64  `json:"optimalVmgAngleDeg"`
	MinUsableWindKt   float64   `json:"minUsableWindKt"`
	MaxSafeWindKt     float64   `json:"maxSafeWindKt"`
	MaxSafeWaveHeightM float64  `json:"maxSafeWaveHeightM"`
}

// RouteType classifies how a route's rhumb-relative shape arose.
type RouteType string

const (
	RouteDirect    RouteType = "direct"
	RoutePort      RouteType = "port"
	RouteStarboard RouteType = "starboard"
)

// NoGoViolation flags a segment whose heading-relative-to-wind lies
// inside the boat's no-go zone.
type NoGoViolation struct {
	SegmentIndex int     `json:"segmentIndex"`
	HeadingDeg   float64 `json:"headingDeg"`
	WindAngleDeg float64 `json:"windAngleDeg"`
}

// Route is a full candidate route, as produced by a router and then
// enriched by the scorer.
type Route struct {
	Name             string          `json:"name"`
	Type             RouteType       `json:"type"`
	Score            int             `json:"score"`
	DistanceNM       float64         `json:"distance"`
	EstimatedTime    string          `json:"estimatedTime"`
	EstimatedHours   float64         `json:"estimatedHours"`
	Waypoints        []Waypoint      `json:"waypoints"`
	Warnings         []string        `json:"warnings"`
	Pros             []string        `json:"pros"`
	Cons             []string        `json:"cons"`
	NoGoZoneViolations []NoGoViolation `json:"noGoZoneViolations"`
}
