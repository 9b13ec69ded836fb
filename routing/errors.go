// routing/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package routing

import "errors"

// Kind classifies an Error for the purposes of HTTP status mapping and
// orchestrator recovery policy.
type Kind string

const (
	KindBadRequest          Kind = "BadRequest"
	KindProviderUnavailable Kind = "ProviderUnavailable"
	KindProviderTimeout     Kind = "ProviderTimeout"
	KindUnreachable         Kind = "Unreachable"
	KindSearchTimeout       Kind = "SearchTimeout"
	KindInternal            Kind = "Internal"
)

// Error wraps an underlying error with a Kind used to decide recovery
// and status-code mapping at the API boundary. Sentinels below are
// checked with errors.Is rather than reconstructed from strings, since
// everything here runs in a single process with no RPC boundary to
// cross.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError constructs an Error of the given kind.
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Sentinel errors checked with errors.Is by callers that don't need the
// full Error wrapper (e.g. internal isochrone/hybrid signaling before the
// orchestrator wraps them with request context).
var (
	ErrUnreachable   = errors.New("no productive heading from origin")
	ErrSearchTimeout = errors.New("search wall-clock or wave cap reached")
	ErrBadRequest    = errors.New("invalid request")
)

// KindOf extracts the Kind from err if it is (or wraps) a *Error,
// defaulting to KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrUnreachable):
		return KindUnreachable
	case errors.Is(err, ErrSearchTimeout):
		return KindSearchTimeout
	default:
		return KindInternal
	}
}
