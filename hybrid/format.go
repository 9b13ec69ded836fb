// hybrid/format.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package hybrid

import (
	"fmt"
	"math"
)

func formatDuration(hours float64) string {
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
