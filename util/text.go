// util/text.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"strconv"
	"strings"
)

// Atof parses a floating point value, trimming surrounding whitespace
// first (used by config for ROUTECAST_*-prefixed numeric env overrides).
func Atof(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
