// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package geo renders geodetic coordinates as degrees, minutes and seconds.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrAngleRange is returned for components outside their valid range.
var ErrAngleRange = errors.New("geo: angle component out of range")

// Part identifies one component of a decomposed angle.
type Part uint8

const (
	PartDegrees Part = 1 << iota
	PartMinutes
	PartSeconds
)

// Angle is a signed angle split into whole degrees, whole minutes and
// fractional seconds. The sign lives on Degrees; Negative additionally
// marks angles in (-1°, 0°) where Degrees is zero.
//
// Missing flags components the receiver did not report. A missing
// component is rendered with its zero-fix piece.
type Angle struct {
	Degrees  int
	Minutes  int
	Seconds  float64
	Negative bool
	Missing  Part
}

// Has reports whether component p was reported.
func (a Angle) Has(p Part) bool {
	return a.Missing&p == 0
}

// Decimal returns the angle in decimal degrees. Missing components count as zero.
func (a Angle) Decimal() float64 {
	var deg, min, sec float64
	if a.Has(PartDegrees) {
		deg = math.Abs(float64(a.Degrees))
	}
	if a.Has(PartMinutes) {
		min = float64(a.Minutes)
	}
	if a.Has(PartSeconds) {
		sec = a.Seconds
	}
	v := deg + min/60 + sec/3600
	if a.Negative || (a.Has(PartDegrees) && a.Degrees < 0) {
		v = -v
	}
	return v
}

func (a Angle) validate() error {
	if a.Has(PartDegrees) && (a.Degrees > 180 || a.Degrees < -180) {
		return fmt.Errorf("%w: degrees %d", ErrAngleRange, a.Degrees)
	}
	if a.Has(PartDegrees) && (a.Degrees == 180 || a.Degrees == -180) &&
		((a.Has(PartMinutes) && a.Minutes != 0) || (a.Has(PartSeconds) && a.Seconds != 0)) {
		return fmt.Errorf("%w: %d°%d'%v\" is beyond 180°", ErrAngleRange, a.Degrees, a.Minutes, a.Seconds)
	}
	if a.Has(PartMinutes) && (a.Minutes < 0 || a.Minutes >= 60) {
		return fmt.Errorf("%w: minutes %d", ErrAngleRange, a.Minutes)
	}
	if a.Has(PartSeconds) {
		s := a.Seconds
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s >= 60 {
			return fmt.Errorf("%w: seconds %v", ErrAngleRange, s)
		}
	}
	return nil
}

// Decompose splits a decimal coordinate into degrees, minutes and seconds.
func Decompose(decimal float64) (Angle, error) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) || math.Abs(decimal) > 180 {
		return Angle{}, fmt.Errorf("%w: %v", ErrAngleRange, decimal)
	}

	abs := math.Abs(decimal)
	deg := math.Floor(abs)
	m := (abs - deg) * 60
	min := math.Floor(m)
	sec := (m - min) * 60

	// float noise near the boundaries
	if sec >= 60 {
		sec = 0
		min++
	}
	if min >= 60 {
		min = 0
		deg++
	}

	a := Angle{
		Degrees:  int(deg),
		Minutes:  int(min),
		Seconds:  sec,
		Negative: decimal < 0,
	}
	if decimal < 0 {
		a.Degrees = -a.Degrees
	}
	return a, nil
}

// Format controls how an angle is rendered.
type Format struct {
	// DegreeWidth left-pads "<deg><DegreeMark>" with spaces to this many runes.
	DegreeWidth     int
	MinutesDecimals int
	SecondsDecimals int

	DegreeMark string
	MinuteMark string
	SecondMark string

	// Separator goes between the degree, minute and second groups.
	Separator string
}

// DefaultFormat renders 19°42'39.2".
var DefaultFormat = Format{
	MinutesDecimals: 0,
	SecondsDecimals: 1,
	DegreeMark:      "°",
	MinuteMark:      "'",
	SecondMark:      "\"",
}

// ZeroFix is the string shown when no position is available.
func (f Format) ZeroFix() string {
	return f.render(false, 0, 0, 0)
}

// Format renders a. A nil angle renders as ZeroFix.
func (f Format) Format(a *Angle) (string, error) {
	if a == nil {
		return f.ZeroFix(), nil
	}
	if err := a.validate(); err != nil {
		return "", err
	}

	var (
		neg bool
		deg int
		min int
		sec float64
	)
	if a.Has(PartDegrees) {
		neg = a.Negative || a.Degrees < 0
		deg = a.Degrees
		if deg < 0 {
			deg = -deg
		}
	}
	if a.Has(PartMinutes) {
		min = a.Minutes
	}
	if a.Has(PartSeconds) {
		sec = roundTo(a.Seconds, f.SecondsDecimals)
		if sec >= 60 {
			sec = 0
			if a.Has(PartMinutes) {
				min++
			}
		}
	}
	if min >= 60 {
		min = 0
		if a.Has(PartDegrees) {
			deg++
		}
	}
	if deg > 180 {
		return "", fmt.Errorf("%w: rounds to %d°", ErrAngleRange, deg)
	}
	// an angle that rounds to zero has no sign
	if deg == 0 && min == 0 && sec == 0 {
		neg = false
	}

	return f.render(neg, deg, min, sec), nil
}

func (f Format) render(neg bool, deg, min int, sec float64) string {
	var b strings.Builder

	d := strconv.Itoa(deg) + f.DegreeMark
	if neg {
		d = "-" + d
	}
	if pad := f.DegreeWidth - utf8.RuneCountInString(d); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(d)
	b.WriteString(f.Separator)
	b.WriteString(strconv.FormatFloat(float64(min), 'f', decimals(f.MinutesDecimals), 64))
	b.WriteString(f.MinuteMark)
	b.WriteString(f.Separator)
	b.WriteString(strconv.FormatFloat(sec, 'f', decimals(f.SecondsDecimals), 64))
	b.WriteString(f.SecondMark)
	return b.String()
}

func decimals(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func roundTo(v float64, n int) float64 {
	p := math.Pow10(decimals(n))
	return math.Round(v*p) / p
}
