// polar/defaults.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package polar

import "github.com/windtrace/routecast/routing"

// Built-in polar tables are a reasonable illustrative approximation of
// common boat classes; exact numerical content is not part of the
// contract (SPEC_FULL §4.2), only the interpolation/no-go-zone
// semantics above.

var sailboatSamples = []Sample{
	// TWS 6kt row
	{6, 0, 0}, {6, 30, 0}, {6, 45, 2.8}, {6, 60, 3.6}, {6, 90, 4.0}, {6, 120, 3.4}, {6, 150, 2.6}, {6, 180, 2.0},
	// TWS 12kt row
	{12, 0, 0}, {12, 30, 0}, {12, 45, 5.2}, {12, 60, 6.3}, {12, 90, 6.8}, {12, 120, 6.1}, {12, 150, 4.8}, {12, 180, 3.6},
	// TWS 20kt row
	{20, 0, 0}, {20, 30, 0}, {20, 45, 6.4}, {20, 60, 7.5}, {20, 90, 7.9}, {20, 120, 7.2}, {20, 150, 5.9}, {20, 180, 4.4},
	// TWS 30kt row (reef territory; speed plateaus)
	{30, 0, 0}, {30, 30, 0}, {30, 45, 6.2}, {30, 60, 7.3}, {30, 90, 7.7}, {30, 120, 7.0}, {30, 150, 5.7}, {30, 180, 4.2},
}

var catamaranSamples = []Sample{
	{6, 0, 0}, {6, 30, 0}, {6, 40, 4.5}, {6, 60, 5.8}, {6, 90, 6.5}, {6, 120, 5.6}, {6, 150, 4.2}, {6, 180, 3.2},
	{12, 0, 0}, {12, 30, 0}, {12, 40, 9.0}, {12, 60, 11.5}, {12, 90, 12.5}, {12, 120, 10.8}, {12, 150, 8.0}, {12, 180, 5.6},
	{20, 0, 0}, {20, 30, 0}, {20, 40, 11.5}, {20, 60, 14.5}, {20, 90, 15.8}, {20, 120, 13.2}, {20, 150, 9.6}, {20, 180, 6.8},
	{30, 0, 0}, {30, 30, 0}, {30, 40, 10.8}, {30, 60, 13.6}, {30, 90, 14.9}, {30, 120, 12.5}, {30, 150, 9.0}, {30, 180, 6.2},
}

// BuiltinTable returns the default polar table for the given boat class.
// Motorboats get an empty table since polar.Speed never consults it for
// that class.
func BuiltinTable(class routing.BoatClass) *Table {
	switch class {
	case routing.ClassSailboat:
		return NewTable(sailboatSamples, 45)
	case routing.ClassCatamaran:
		return NewTable(catamaranSamples, 40)
	default:
		return NewTable(nil, 0)
	}
}

// BuiltinProfile returns a default BoatProfile for the given class.
func BuiltinProfile(class routing.BoatClass) routing.BoatProfile {
	switch class {
	case routing.ClassSailboat:
		return routing.BoatProfile{
			Class: class, AvgCruiseSpeedKt: 6, MaxCruiseSpeedKt: 8,
			OptimalVMGAngleDeg: 45, MinUsableWindKt: 4, MaxSafeWindKt: 35, MaxSafeWaveHeightM: 3,
		}
	case routing.ClassCatamaran:
		return routing.BoatProfile{
			Class: class, AvgCruiseSpeedKt: 11, MaxCruiseSpeedKt: 16,
			OptimalVMGAngleDeg: 40, MinUsableWindKt: 5, MaxSafeWindKt: 30, MaxSafeWaveHeightM: 2,
		}
	default: // motorboat
		return routing.BoatProfile{
			Class: class, AvgCruiseSpeedKt: 18, MaxCruiseSpeedKt: 24,
			OptimalVMGAngleDeg: 0, MinUsableWindKt: 0, MaxSafeWindKt: 30, MaxSafeWaveHeightM: 1.5,
		}
	}
}
