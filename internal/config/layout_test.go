// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/relabs-tech/gnss_tracker/internal/display"
	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/geo"
)

const sampleLayout = `
title: MEADOW STATION
margin_x: 4
fields:
  - name: temperature
    caption: "TEMP:"
    precision: 2
  - name: pressure
    placeholder: "-.-- ATM"
angle:
  degree_width: 5
  seconds_decimals: 0
  separator: " "
`

func newBuilder(t *testing.T) *display.Builder {
	t.Helper()
	b, err := display.NewBuilder(display.DefaultFonts(), env.Temperature, env.Pressure)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLayoutApply(t *testing.T) {
	l, err := ParseLayout([]byte(sampleLayout))
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	b := newBuilder(t)
	if err := l.Apply(b); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if b.Title != "MEADOW STATION" || b.MarginX != 4 || b.OffsetY != 6 {
		t.Errorf("builder = %q %d %d", b.Title, b.MarginX, b.OffsetY)
	}
	temp := b.Measures[0]
	if temp.Caption != "TEMP:" || temp.Precision != 2 || temp.Unit != "°C" {
		t.Errorf("temperature = %+v", temp)
	}
	if got := b.Measures[1].PlaceholderText(); got != "-.-- ATM" {
		t.Errorf("pressure placeholder = %q", got)
	}

	want := geo.DefaultFormat
	want.DegreeWidth = 5
	want.SecondsDecimals = 0
	want.Separator = " "
	if b.Angle != want {
		t.Errorf("angle format = %+v, want %+v", b.Angle, want)
	}
}

func TestLayoutApply_Empty(t *testing.T) {
	l, err := ParseLayout(nil)
	if err != nil {
		t.Fatal(err)
	}
	b := newBuilder(t)
	before := *b
	before.Measures = append([]display.Measure(nil), b.Measures...)
	if err := l.Apply(b); err != nil {
		t.Fatal(err)
	}
	if b.Title != before.Title || b.Angle != before.Angle || b.Measures[0] != before.Measures[0] {
		t.Error("empty profile changed the builder")
	}
}

func TestLayout_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown key", "colour: red", nil},
		{"row not on panel", "fields:\n  - name: solar\n", display.ErrUnknownMeasure},
		{"unknown quantity", "fields:\n  - name: wind\n", nil},
		{"precision", "fields:\n  - name: temperature\n    precision: 9\n", nil},
		{"inverted range", "fields:\n  - name: temperature\n    min: 10\n    max: 5\n", nil},
		{"angle decimals", "angle:\n  minutes_decimals: -1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ParseLayout([]byte(tt.yaml))
			if err == nil {
				err = l.Apply(newBuilder(t))
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "layout: ") {
				t.Errorf("error %q lacks prefix", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
