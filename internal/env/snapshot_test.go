// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import "testing"

func TestParseQuantity(t *testing.T) {
	for _, q := range Quantities() {
		got, err := ParseQuantity(q.String())
		if err != nil {
			t.Fatalf("ParseQuantity(%q) error: %v", q.String(), err)
		}
		if got != q {
			t.Errorf("ParseQuantity(%q) = %v, want %v", q.String(), got, q)
		}
	}

	if _, err := ParseQuantity("accel"); err == nil {
		t.Error("ParseQuantity should reject unknown names")
	}
}

func TestSnapshot(t *testing.T) {
	var empty Snapshot
	for _, q := range Quantities() {
		if empty.Get(q).Valid {
			t.Errorf("zero snapshot has %v", q)
		}
	}

	s := NewSnapshot(map[Quantity]Reading{Temperature: Some(21.5)})
	s2 := s.With(Solar, Some(5.1))

	if got := s.Get(Temperature); !got.Valid || got.Value != 21.5 {
		t.Errorf("Temperature = %+v", got)
	}
	if s.Get(Solar).Valid {
		t.Error("With must not modify the receiver")
	}
	if got := s2.Get(Solar); !got.Valid || got.Value != 5.1 {
		t.Errorf("Solar = %+v", got)
	}
	if s.Get(Quantity(42)).Valid {
		t.Error("unknown quantity should be absent")
	}
}
