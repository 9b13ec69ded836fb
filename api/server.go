// api/server.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package api exposes the orchestrator over HTTP: POST
// /calculate-routes, GET /healthz, GET /stats, GET /polar-table, and GET
// /debug/pprof/*, grounded on server/http.go's launchHTTPServer mux
// wiring and incrementing-port bind retry.
package api

import (
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/windtrace/routecast/orchestrate"
	"github.com/windtrace/routecast/rlog"
	"github.com/windtrace/routecast/util"
)

// Server holds the HTTP-layer dependencies, constructed once in
// cmd/routecastd and passed down rather than reached for via globals.
type Server struct {
	Orchestrator *orchestrate.Orchestrator
	Log          *rlog.Logger
	StartTime    time.Time

	// Port is set to the bound port once Launch succeeds.
	Port int

	// shuttingDown flips once Shutdown is called; /healthz reports it so
	// a load balancer can stop routing new requests before the process
	// exits.
	shuttingDown util.AtomicBool
}

// Shutdown marks the server as draining. It does not itself close the
// listener (the process exits once cmd/routecastd's signal wait
// returns); it exists so /healthz can fail fast during the exit window.
func (s *Server) Shutdown() {
	s.shuttingDown.Store(true)
}

// NewServer wires a Server around an already-constructed Orchestrator.
func NewServer(o *orchestrate.Orchestrator, log *rlog.Logger) *Server {
	return &Server{Orchestrator: o, Log: log, StartTime: time.Now()}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calculate-routes", s.withRecovery(s.withCorrelationID(s.handleCalculateRoutes)))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /polar-table", s.handlePolarTable)

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Launch binds the server to the first free port starting at basePort,
// trying up to attempts incrementing ports, the same bounded-retry
// behavior as the teacher's launchHTTPServer. It returns once bound; the
// server itself runs in a background goroutine.
func (s *Server) Launch(basePort, attempts int) error {
	var listener net.Listener
	var err error
	var port int
	for i := 0; i < attempts; i++ {
		port = basePort + i
		if listener, err = net.Listen("tcp", ":"+strconv.Itoa(port)); err == nil {
			break
		}
		s.Log.Warnf("port %d unavailable: %v", port, err)
	}
	if err != nil {
		return fmt.Errorf("api: unable to bind any port in [%d,%d]: %w", basePort, basePort+attempts-1, err)
	}

	s.Port = port
	s.Log.Infof("listening on port %d", port)

	mux := s.mux()
	go func() {
		if err := http.Serve(listener, mux); err != nil {
			s.Log.Errorf("http server error: %v", err)
		}
	}()
	return nil
}
