// geo/geo.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo provides pure spherical-geometry functions over a sphere
// the radius of the Earth in nautical miles: great-circle distance,
// forward bearing, and closed-form destination points.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusNM is the mean radius of the Earth in nautical miles.
const EarthRadiusNM = 3440.065

// Coordinate is a point on the Earth's surface.
type Coordinate struct {
	Lat float64 // degrees, [-90, 90]
	Lng float64 // degrees, [-180, 180]
}

// Error reports an input outside the valid lat/lng domain.
type Error struct {
	Op  string
	Lat float64
	Lng float64
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("geo: %s: %s (lat=%g, lng=%g)", e.Op, e.Msg, e.Lat, e.Lng)
}

func validate(op string, c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return &Error{Op: op, Lat: c.Lat, Lng: c.Lng, Msg: "latitude out of [-90,90]"}
	}
	if c.Lng < -180 || c.Lng > 180 {
		return &Error{Op: op, Lat: c.Lat, Lng: c.Lng, Msg: "longitude out of [-180,180]"}
	}
	return nil
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeBearing maps an angle in degrees to [0, 360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleDiff returns the absolute angular difference between two bearings
// in degrees, wrapped to [0, 180].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Distance returns the great-circle distance between a and b, in
// nautical miles, via the haversine formula.
func Distance(a, b Coordinate) (float64, error) {
	if err := validate("Distance", a); err != nil {
		return 0, err
	}
	if err := validate("Distance", b); err != nil {
		return 0, err
	}

	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinDLat2 := math.Sin(dLat / 2)
	sinDLng2 := math.Sin(dLng / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLng2*sinDLng2
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusNM * c, nil
}

// Bearing returns the initial (forward) azimuth from a to b in degrees
// clockwise from north, in [0, 360).
func Bearing(a, b Coordinate) (float64, error) {
	if err := validate("Bearing", a); err != nil {
		return 0, err
	}
	if err := validate("Bearing", b); err != nil {
		return 0, err
	}

	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return NormalizeBearing(toDegrees(math.Atan2(y, x))), nil
}

// Destination returns the point reached by travelling distanceNM
// nautical miles from a along the given initial bearing (degrees), via
// the closed-form spherical destination formula.
func Destination(a Coordinate, bearingDeg, distanceNM float64) (Coordinate, error) {
	if err := validate("Destination", a); err != nil {
		return Coordinate{}, err
	}
	if distanceNM < 0 {
		return Coordinate{}, &Error{Op: "Destination", Lat: a.Lat, Lng: a.Lng, Msg: "negative distance"}
	}

	lat1 := toRadians(a.Lat)
	lng1 := toRadians(a.Lng)
	brng := toRadians(NormalizeBearing(bearingDeg))
	angDist := distanceNM / EarthRadiusNM

	sinLat1, cosLat1 := math.Sin(lat1), math.Cos(lat1)
	sinAngDist, cosAngDist := math.Sin(angDist), math.Cos(angDist)

	lat2 := math.Asin(sinLat1*cosAngDist + cosLat1*sinAngDist*math.Cos(brng))
	lng2 := lng1 + math.Atan2(
		math.Sin(brng)*sinAngDist*cosLat1,
		cosAngDist-sinLat1*math.Sin(lat2))

	result := Coordinate{Lat: toDegrees(lat2), Lng: normalizeLng(toDegrees(lng2))}
	return result, nil
}

func normalizeLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
