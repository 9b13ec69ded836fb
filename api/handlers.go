// api/handlers.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/windtrace/routecast/polar"
	"github.com/windtrace/routecast/routing"
	"github.com/windtrace/routecast/util"
)

type correlationIDKey struct{}

// withCorrelationID tags every request with a UUID used both in log
// lines for that request and in the diagnostics/error body, grounded on
// the teacher's use of github.com/google/uuid.
func (s *Server) withCorrelationID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		ctx := context.WithValue(r.Context(), correlationIDKey{}, id)
		next(w, r.WithContext(ctx))
	}
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// withRecovery mirrors the teacher's local panic-recover + log +
// continue-serving idiom (CatchAndReportPanic), dropped of the
// crash-reporting HTTP POST (telemetry is an explicit Non-goal).
// CatchAndReportPanic is deferred directly so that its recover takes
// effect; the earlier deferred func then answers with a 500.
func (s *Server) withRecovery(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		panicked := true
		defer func() {
			if panicked {
				writeError(w, correlationID(r.Context()), routing.NewError(routing.KindInternal, "internal error", nil))
			}
		}()
		defer s.Log.CatchAndReportPanic()
		next(w, r)
		panicked = false
	}
}

func (s *Server) handleCalculateRoutes(w http.ResponseWriter, r *http.Request) {
	id := correlationID(r.Context())
	log := s.Log.With("request_id", id)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, id, routing.NewError(routing.KindBadRequest, "unable to read request body", err))
		return
	}
	if dups := util.FindDuplicateJSONKeys(body); len(dups) > 0 {
		writeError(w, id, routing.NewError(routing.KindBadRequest, fmt.Sprintf("duplicate key %q in request body", dups[0].Key), nil))
		return
	}

	var req routing.RouteRequest
	if err := util.UnmarshalJSONBytes(body, &req); err != nil {
		writeError(w, id, routing.NewError(routing.KindBadRequest, "malformed request body", err))
		return
	}

	resp, err := s.Orchestrator.Calculate(r.Context(), req)
	if err != nil {
		log.Warnf("calculate-routes failed: %v", err)
		writeError(w, id, err)
		return
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, correlationID string, err error) {
	status := statusForKind(routing.KindOf(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error(), CorrelationID: correlationID})
}

// writeJSON encodes v as the response body, gzip-compressing it whenever
// the client advertises support (the weatherGrid-bearing
// /calculate-routes response is the dominant payload size per SPEC_FULL
// §11), grounded on the teacher's use of klauspost/compress for large
// payloads.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if acceptsGzip(r) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(status)
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_ = json.NewEncoder(gz).Encode(v)
		return
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range r.Header.Values("Accept-Encoding") {
		if containsToken(enc, "gzip") {
			return true
		}
	}
	return false
}

func containsToken(header, token string) bool {
	for len(header) > 0 {
		i := 0
		for i < len(header) && header[i] != ',' {
			i++
		}
		part := header[:i]
		for len(part) > 0 && part[0] == ' ' {
			part = part[1:]
		}
		for len(part) > 0 && part[len(part)-1] == ' ' {
			part = part[:len(part)-1]
		}
		if part == token {
			return true
		}
		if i == len(header) {
			break
		}
		header = header[i+1:]
	}
	return false
}

// handlePolarTable serves a boat class's built-in polar table as the
// order-preserving JSON produced by polar.Table.ToOrderedMap, grounded
// on SPEC_FULL §4.2's "human-diffable, key-order-preserving" round-trip
// contract for config-shaped data.
func (s *Server) handlePolarTable(w http.ResponseWriter, r *http.Request) {
	id := correlationID(r.Context())
	class := routing.BoatClass(r.URL.Query().Get("boat_type"))
	if !class.Valid() {
		writeError(w, id, routing.NewError(routing.KindBadRequest, fmt.Sprintf("unknown boat_type %q", class), nil))
		return
	}
	writeJSON(w, r, http.StatusOK, polar.BuiltinTable(class).ToOrderedMap())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown.Load() {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "draining"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.StartTime).String(),
	})
}

type serverStats struct {
	Uptime        time.Duration
	AllocMemory   uint64
	SysMemory     uint64
	NumGC         uint32
	NumGoRoutines int
	CPUUsage      int
}

var statsTemplate = parseStatsTemplate()

// handleStats renders an HTML status page via text/template, reporting
// runtime.ReadMemStats plus CPU usage from github.com/shirou/gopsutil/v3,
// adapted from the teacher's statsHandler/statsTemplate (trimmed of the
// ATC sim's sim/TTS-specific fields, keeping the same operational
// visibility role).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage, _ := cpu.Percent(200*time.Millisecond, false)
	cpuPct := 0
	if len(usage) > 0 {
		cpuPct = int(usage[0] + 0.5)
	}

	stats := serverStats{
		Uptime:        time.Since(s.StartTime).Round(time.Second),
		AllocMemory:   m.Alloc / (1024 * 1024),
		SysMemory:     m.Sys / (1024 * 1024),
		NumGC:         m.NumGC,
		NumGoRoutines: runtime.NumGoroutine(),
		CPUUsage:      cpuPct,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = statsTemplate.Execute(w, stats)
}
