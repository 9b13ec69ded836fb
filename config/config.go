// config/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package config binds routecastd's process-level configuration from
// flags with ROUTECAST_*-prefixed environment variable overrides,
// grounded on the teacher's flat, explicit, typed launch parameters in
// server/http.go rather than an ecosystem CLI framework (the teacher's
// own stack has none).
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/windtrace/routecast/isochrone"
	"github.com/windtrace/routecast/util"
)

// Config is the full set of knobs routecastd accepts.
type Config struct {
	// HTTPPort is the first port the server attempts to bind;
	// api.Server.Launch tries up to HTTPPortAttempts incrementing ports
	// the way the teacher's launchHTTPServer does.
	HTTPPort        int
	HTTPPortAttempts int

	LogLevel string
	LogDir   string

	// ProviderURL, if set, selects weather.HTTPProvider against that
	// base URL; empty selects weather.NewCalmMockProvider for local
	// development and tests.
	ProviderURL string

	RequestTimeout time.Duration

	Isochrone isochrone.Config
}

// Default returns the baseline configuration before flag/env overrides.
func Default() Config {
	return Config{
		HTTPPort:         8080,
		HTTPPortAttempts: 10,
		LogLevel:         "info",
		LogDir:           "logs",
		RequestTimeout:   25 * time.Second,
		Isochrone:        isochrone.DefaultConfig(),
	}
}

// Parse builds a Config from Default(), flags, then ROUTECAST_*
// environment variables (env wins, matching a container-friendly
// override order).
func Parse(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("routecastd", flag.ContinueOnError)
	fs.IntVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "HTTP bind port")
	fs.IntVar(&cfg.HTTPPortAttempts, "port-attempts", cfg.HTTPPortAttempts, "number of incrementing ports to try if the first is taken")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, or error")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "directory for rotated JSON log files")
	fs.StringVar(&cfg.ProviderURL, "provider-url", cfg.ProviderURL, "base URL of the weather provider HTTP API; empty uses a local mock provider")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "wall-clock deadline for a single /calculate-routes request")
	fs.Float64Var(&cfg.Isochrone.TimeStepHours, "isochrone-step-hours", cfg.Isochrone.TimeStepHours, "isochrone propagation time step")
	fs.Float64Var(&cfg.Isochrone.AngularResolutionDeg, "isochrone-angular-res-deg", cfg.Isochrone.AngularResolutionDeg, "isochrone heading scan resolution")
	fs.IntVar(&cfg.Isochrone.MaxWaves, "isochrone-max-waves", cfg.Isochrone.MaxWaves, "maximum isochrone propagation waves before TIMEOUT")
	fs.DurationVar(&cfg.Isochrone.MaxWallTime, "isochrone-max-wall-time", cfg.Isochrone.MaxWallTime, "isochrone search wall-clock deadline")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	resolved, err := cfg.Isochrone.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Isochrone = resolved

	return cfg, nil
}

const envPrefix = "ROUTECAST_"

func applyEnvOverrides(cfg *Config) error {
	if v, ok := os.LookupEnv(envPrefix + "PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %sPORT: %w", envPrefix, err)
		}
		cfg.HTTPPort = n
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_DIR"); ok {
		cfg.LogDir = v
	}
	if v, ok := os.LookupEnv(envPrefix + "PROVIDER_URL"); ok {
		cfg.ProviderURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(envPrefix + "ISOCHRONE_STEP_HOURS"); ok {
		f, err := util.Atof(v)
		if err != nil {
			return fmt.Errorf("config: invalid %sISOCHRONE_STEP_HOURS: %w", envPrefix, err)
		}
		cfg.Isochrone.TimeStepHours = f
	}
	return nil
}
