// api/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package api

import (
	"net/http"

	"github.com/windtrace/routecast/routing"
)

// statusForKind is the single switch mapping a routing.Error Kind to an
// HTTP status, grounded on server/errors.go's role as the one place that
// translates internal errors into an external vocabulary — simplified
// here since there is no RPC round-trip requiring string reconstruction,
// only a Kind-tagged wrapper checked directly.
func statusForKind(k routing.Kind) int {
	switch k {
	case routing.KindBadRequest:
		return http.StatusBadRequest
	case routing.KindProviderUnavailable:
		return http.StatusBadGateway
	case routing.KindProviderTimeout:
		return http.StatusGatewayTimeout
	case routing.KindSearchTimeout:
		return http.StatusGatewayTimeout
	case routing.KindUnreachable:
		return http.StatusOK // surfaced as an empty route list with diagnostics, not an HTTP error
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}
