// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/relabs-tech/gnss_tracker/internal/env"
)

var (
	ErrNotFinite  = errors.New("display: value is not finite")
	ErrOutOfRange = errors.New("display: value out of range")
)

// UnitColumn is the rune width the unit suffix is right-aligned to, so
// values line up across rows ("23.2  °C", "78.5   %", "1.20 ATM").
const UnitColumn = 3

// Measure describes how one quantity is captioned and rendered.
type Measure struct {
	Quantity  env.Quantity
	Caption   string
	Unit      string
	Precision int

	// Min and Max bound accepted values. Equal bounds disable the check.
	Min, Max float64

	// Placeholder is shown when there is no reading or formatting fails.
	// Empty means "0.0" plus the unit column.
	Placeholder string
}

var defaultMeasures = map[env.Quantity]Measure{
	env.Temperature: {Quantity: env.Temperature, Caption: "TEMPERATURE:", Unit: "°C", Precision: 1, Min: -40, Max: 85},
	env.Humidity:    {Quantity: env.Humidity, Caption: "HUMIDITY:", Unit: "%", Precision: 1, Min: 0, Max: 100},
	env.Pressure:    {Quantity: env.Pressure, Caption: "PRESSURE:", Unit: "ATM", Precision: 2, Min: 0.2, Max: 1.2},
	env.Gas:         {Quantity: env.Gas, Caption: "CO2 LEVELS:", Unit: "PPM", Precision: 1, Min: 0, Max: 40000},
	env.Battery:     {Quantity: env.Battery, Caption: "BATTERY:", Unit: "V", Precision: 2, Min: 0, Max: 30},
	env.Solar:       {Quantity: env.Solar, Caption: "SOLAR:", Unit: "V", Precision: 2, Min: 0, Max: 30},
}

// DefaultMeasure returns the stock presentation of q.
func DefaultMeasure(q env.Quantity) (Measure, error) {
	m, ok := defaultMeasures[q]
	if !ok {
		return Measure{}, fmt.Errorf("%w: %v", ErrUnknownMeasure, q)
	}
	return m, nil
}

// DefaultMeasures returns the stock presentation of qs, in order.
func DefaultMeasures(qs ...env.Quantity) ([]Measure, error) {
	out := make([]Measure, 0, len(qs))
	for _, q := range qs {
		m, err := DefaultMeasure(q)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// PlaceholderText is the text shown when no value is available.
func (m Measure) PlaceholderText() string {
	if m.Placeholder != "" {
		return m.Placeholder
	}
	return "0.0 " + padUnit(m.Unit)
}

// Format renders r. An absent reading renders as the placeholder.
func (m Measure) Format(r env.Reading) (string, error) {
	if !r.Valid {
		return m.PlaceholderText(), nil
	}

	v := r.Value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %s %v", ErrNotFinite, m.Quantity, v)
	}
	if m.Min != m.Max && (v < m.Min || v > m.Max) {
		return "", fmt.Errorf("%w: %s %v not in [%v, %v]", ErrOutOfRange, m.Quantity, v, m.Min, m.Max)
	}

	prec := m.Precision
	if prec < 0 {
		prec = 0
	}
	p := math.Pow10(prec)
	v = math.Round(v*p) / p
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + " " + padUnit(m.Unit), nil
}

func padUnit(unit string) string {
	if pad := UnitColumn - utf8.RuneCountInString(unit); pad > 0 {
		return strings.Repeat(" ", pad) + unit
	}
	return unit
}
