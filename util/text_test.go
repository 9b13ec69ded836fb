// util/text_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import "testing"

func TestAtofTrimsWhitespace(t *testing.T) {
	v, err := Atof("  3.5  ")
	if err != nil {
		t.Fatalf("Atof: %v", err)
	}
	if v != 3.5 {
		t.Errorf("expected 3.5, got %g", v)
	}
}

func TestAtofRejectsNonNumeric(t *testing.T) {
	if _, err := Atof("not-a-number"); err == nil {
		t.Errorf("expected an error for non-numeric input")
	}
}
