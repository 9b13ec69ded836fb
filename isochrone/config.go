// isochrone/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package isochrone implements the wave-expansion isochrone search: from
// an origin, repeatedly propagate a frontier of reachable points forward
// in time along candidate headings, prune to a bounded surviving set,
// and reconstruct a route once the goal is reached.
package isochrone

import (
	"fmt"
	"time"
)

// Config holds the tunable knobs for one isochrone search, mirroring
// the teacher's small tunable-config-struct idiom (e.g. wx.WeatherFilter):
// a flat struct of named fields with documented defaults, populated by
// the config package and never mutated by the search itself.
type Config struct {
	TimeStepHours float64 // Δt; reduced automatically so the direct path spans >= MinStepsAcrossRoute
	MinStepsAcrossRoute int

	AngularResolutionDeg float64

	PruneCellDeg        float64 // pruning grid cell size, degrees
	PruneTimeBucketHours float64 // defaults to TimeStepHours if zero

	ConeHalfAngleMaxDeg float64
	ConeHalfAngleMinDeg float64
	ConeNarrowingK      float64 // cone_half(progress) = max(min, max*(1-progress*k))

	GoalToleranceNM float64

	MaxWallTime          time.Duration
	MaxWaves             int
	MaxSurvivingPerWave  int
	ExtraWavesAfterGoal  int

	MinProgressFractionOfStep float64 // min_progress_nm = this * u * Δt
}

// DefaultConfig returns the documented defaults from SPEC_FULL §4.4.1.
func DefaultConfig() Config {
	return Config{
		TimeStepHours:             1.0,
		MinStepsAcrossRoute:       8,
		AngularResolutionDeg:      10,
		PruneCellDeg:              0.1,
		PruneTimeBucketHours:      0, // defaults to TimeStepHours, resolved in Validate
		ConeHalfAngleMaxDeg:       90,
		ConeHalfAngleMinDeg:       30,
		ConeNarrowingK:            1.0,
		GoalToleranceNM:           5,
		MaxWallTime:               30 * time.Second,
		MaxWaves:                  240,
		MaxSurvivingPerWave:       2000,
		ExtraWavesAfterGoal:       2,
		MinProgressFractionOfStep: 0.05,
	}
}

// Validate fills in zero-valued defaults and rejects nonsensical
// combinations, returning the resolved config.
func (c Config) Validate() (Config, error) {
	d := DefaultConfig()
	if c.TimeStepHours <= 0 {
		c.TimeStepHours = d.TimeStepHours
	}
	if c.MinStepsAcrossRoute <= 0 {
		c.MinStepsAcrossRoute = d.MinStepsAcrossRoute
	}
	if c.AngularResolutionDeg <= 0 {
		c.AngularResolutionDeg = d.AngularResolutionDeg
	}
	if c.PruneCellDeg <= 0 {
		c.PruneCellDeg = d.PruneCellDeg
	}
	if c.PruneTimeBucketHours <= 0 {
		c.PruneTimeBucketHours = c.TimeStepHours
	}
	if c.ConeHalfAngleMaxDeg <= 0 {
		c.ConeHalfAngleMaxDeg = d.ConeHalfAngleMaxDeg
	}
	if c.ConeHalfAngleMinDeg <= 0 {
		c.ConeHalfAngleMinDeg = d.ConeHalfAngleMinDeg
	}
	if c.ConeHalfAngleMinDeg > c.ConeHalfAngleMaxDeg {
		return c, fmt.Errorf("isochrone: cone half-angle min (%g) exceeds max (%g)", c.ConeHalfAngleMinDeg, c.ConeHalfAngleMaxDeg)
	}
	if c.ConeNarrowingK <= 0 {
		c.ConeNarrowingK = d.ConeNarrowingK
	}
	if c.GoalToleranceNM <= 0 {
		c.GoalToleranceNM = d.GoalToleranceNM
	}
	if c.MaxWallTime <= 0 {
		c.MaxWallTime = d.MaxWallTime
	}
	if c.MaxWaves <= 0 {
		c.MaxWaves = d.MaxWaves
	}
	if c.MaxSurvivingPerWave <= 0 {
		c.MaxSurvivingPerWave = d.MaxSurvivingPerWave
	}
	if c.ExtraWavesAfterGoal < 0 {
		c.ExtraWavesAfterGoal = d.ExtraWavesAfterGoal
	}
	if c.MinProgressFractionOfStep <= 0 {
		c.MinProgressFractionOfStep = d.MinProgressFractionOfStep
	}
	return c, nil
}

// ConeHalfAngle implements the monotone cone-narrowing schedule from
// SPEC_FULL §4.4.4: progress is the fraction of the direct distance
// already covered, in [0,1].
func (c Config) ConeHalfAngle(progress float64) float64 {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	half := c.ConeHalfAngleMaxDeg * (1 - progress*c.ConeNarrowingK)
	if half < c.ConeHalfAngleMinDeg {
		half = c.ConeHalfAngleMinDeg
	}
	return half
}
