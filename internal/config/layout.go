// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/gnss_tracker/internal/display"
	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/geo"
)

// Layout is the optional YAML panel profile (LAYOUT_FILE). Unset keys keep
// the builder's defaults.
type Layout struct {
	Title   *string        `yaml:"title"`
	MarginX *int           `yaml:"margin_x"`
	OffsetY *int           `yaml:"offset_y"`
	Fields  []FieldProfile `yaml:"fields"`
	Angle   AngleProfile   `yaml:"angle"`
}

// FieldProfile overrides the presentation of one measurement row.
type FieldProfile struct {
	Name        string   `yaml:"name"`
	Caption     *string  `yaml:"caption"`
	Precision   *int     `yaml:"precision"`
	Placeholder *string  `yaml:"placeholder"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
}

// AngleProfile overrides the coordinate format.
type AngleProfile struct {
	DegreeWidth     *int    `yaml:"degree_width"`
	MinutesDecimals *int    `yaml:"minutes_decimals"`
	SecondsDecimals *int    `yaml:"seconds_decimals"`
	DegreeMark      *string `yaml:"degree_mark"`
	MinuteMark      *string `yaml:"minute_mark"`
	SecondMark      *string `yaml:"second_mark"`
	Separator       *string `yaml:"separator"`
}

// LoadLayout reads a layout profile. Unknown keys are an error.
func LoadLayout(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	return ParseLayout(b)
}

func ParseLayout(b []byte) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return &l, nil
}

// Apply writes the profile into b. Field overrides must name a row that is
// on the panel.
func (l *Layout) Apply(b *display.Builder) error {
	if l.Title != nil {
		b.Title = *l.Title
	}
	if l.MarginX != nil {
		if *l.MarginX < 0 {
			return fmt.Errorf("layout: margin_x must be >= 0, got %d", *l.MarginX)
		}
		b.MarginX = *l.MarginX
	}
	if l.OffsetY != nil {
		if *l.OffsetY < 0 {
			return fmt.Errorf("layout: offset_y must be >= 0, got %d", *l.OffsetY)
		}
		b.OffsetY = *l.OffsetY
	}

	for _, f := range l.Fields {
		q, err := env.ParseQuantity(f.Name)
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
		m := findMeasure(b.Measures, q)
		if m == nil {
			return fmt.Errorf("layout: %w: %q is not on the panel", display.ErrUnknownMeasure, f.Name)
		}
		if err := f.apply(m); err != nil {
			return fmt.Errorf("layout: field %s: %w", f.Name, err)
		}
	}

	return l.Angle.apply(&b.Angle)
}

func findMeasure(ms []display.Measure, q env.Quantity) *display.Measure {
	for i := range ms {
		if ms[i].Quantity == q {
			return &ms[i]
		}
	}
	return nil
}

func (f FieldProfile) apply(m *display.Measure) error {
	if f.Caption != nil {
		m.Caption = *f.Caption
	}
	if f.Precision != nil {
		if *f.Precision < 0 || *f.Precision > 6 {
			return fmt.Errorf("precision must be 0-6, got %d", *f.Precision)
		}
		m.Precision = *f.Precision
	}
	if f.Placeholder != nil {
		m.Placeholder = *f.Placeholder
	}
	if f.Min != nil {
		m.Min = *f.Min
	}
	if f.Max != nil {
		m.Max = *f.Max
	}
	if m.Min > m.Max {
		return fmt.Errorf("min %g above max %g", m.Min, m.Max)
	}
	return nil
}

func (a AngleProfile) apply(f *geo.Format) error {
	for _, n := range []*int{a.DegreeWidth, a.MinutesDecimals, a.SecondsDecimals} {
		if n != nil && (*n < 0 || *n > 6) {
			return fmt.Errorf("layout: angle widths and decimals must be 0-6, got %d", *n)
		}
	}
	setInt(&f.DegreeWidth, a.DegreeWidth)
	setInt(&f.MinutesDecimals, a.MinutesDecimals)
	setInt(&f.SecondsDecimals, a.SecondsDecimals)
	setString(&f.DegreeMark, a.DegreeMark)
	setString(&f.MinuteMark, a.MinuteMark)
	setString(&f.SecondMark, a.SecondMark)
	setString(&f.Separator, a.Separator)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
