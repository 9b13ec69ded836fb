// config/config_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import "testing"

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.Isochrone.TimeStepHours != 1.0 {
		t.Errorf("expected default isochrone time step, got %g", cfg.Isochrone.TimeStepHours)
	}
}

func TestParseFlagsOverrideDefaults(t *testing.T) {
	cfg, err := Parse([]string{"-port", "9090", "-log-level", "debug"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("expected overridden port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected overridden log level debug, got %q", cfg.LogLevel)
	}
}

func TestParseEnvOverridesFlags(t *testing.T) {
	t.Setenv("ROUTECAST_PORT", "7070")
	cfg, err := Parse([]string{"-port", "9090"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTPPort != 7070 {
		t.Errorf("expected env override to win, got %d", cfg.HTTPPort)
	}
}

func TestParseEnvOverridesIsochroneStep(t *testing.T) {
	t.Setenv("ROUTECAST_ISOCHRONE_STEP_HOURS", "0.5")
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Isochrone.TimeStepHours != 0.5 {
		t.Errorf("expected isochrone step override 0.5, got %g", cfg.Isochrone.TimeStepHours)
	}
}

func TestParseRejectsBadEnvDuration(t *testing.T) {
	t.Setenv("ROUTECAST_REQUEST_TIMEOUT", "not-a-duration")
	if _, err := Parse(nil); err == nil {
		t.Errorf("expected an error for an invalid duration override")
	}
}
