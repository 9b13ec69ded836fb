// cmd/routecastd/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Command routecastd serves weather-optimal sailing route computations
// over HTTP. It wires config -> logger -> weather provider -> HTTP
// server, constructing the Orchestrator once and passing it down,
// grounded on the teacher's cmd/vice/main.go init-then-run shape
// (trimmed of everything GUI/sim-specific, since this binary is
// server-only).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/windtrace/routecast/api"
	"github.com/windtrace/routecast/config"
	"github.com/windtrace/routecast/orchestrate"
	"github.com/windtrace/routecast/rlog"
	"github.com/windtrace/routecast/scoring"
	"github.com/windtrace/routecast/weather"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "routecastd: %v\n", err)
		os.Exit(1)
	}

	log := rlog.New(cfg.LogLevel, cfg.LogDir)

	provider := buildProvider(cfg, log)

	orch := &orchestrate.Orchestrator{
		Log:             log,
		Provider:        provider,
		IsochroneConfig: cfg.Isochrone,
		ScoringWeights:  scoring.DefaultWeights,
		RequestTimeout:  cfg.RequestTimeout,
	}

	srv := api.NewServer(orch, log)
	if err := srv.Launch(cfg.HTTPPort, cfg.HTTPPortAttempts); err != nil {
		log.Errorf("unable to launch HTTP server: %v", err)
		os.Exit(1)
	}

	waitForShutdownSignal(log)
	srv.Shutdown()
}

func buildProvider(cfg config.Config, log *rlog.Logger) weather.Provider {
	if cfg.ProviderURL == "" {
		log.Infof("no provider-url configured, using the local mock weather provider")
		return weather.NewCalmMockProvider()
	}
	return &weather.HTTPProvider{BaseURL: cfg.ProviderURL, Log: log}
}

func waitForShutdownSignal(log *rlog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Infof("caught signal, shutting down")
}
