// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/geo"
)

// FieldID is the stable key of a mutable field.
type FieldID int

const (
	FieldTemperature FieldID = iota
	FieldHumidity
	FieldPressure
	FieldGas
	FieldBattery
	FieldSolar
	FieldLatitude
	FieldLongitude
	FieldCounter
	FieldClock

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldTemperature: "temperature",
	FieldHumidity:    "humidity",
	FieldPressure:    "pressure",
	FieldGas:         "gas",
	FieldBattery:     "battery",
	FieldSolar:       "solar",
	FieldLatitude:    "latitude",
	FieldLongitude:   "longitude",
	FieldCounter:     "counter",
	FieldClock:       "clock",
}

func (id FieldID) String() string {
	if id < 0 || id >= fieldCount {
		return fmt.Sprintf("FieldID(%d)", int(id))
	}
	return fieldNames[id]
}

// measureFields maps each quantity to the field that shows it.
var measureFields = map[env.Quantity]FieldID{
	env.Temperature: FieldTemperature,
	env.Humidity:    FieldHumidity,
	env.Pressure:    FieldPressure,
	env.Gas:         FieldGas,
	env.Battery:     FieldBattery,
	env.Solar:       FieldSolar,
}

// Screen is an ordered screen graph plus the registry of its mutable fields.
// Elements paint in insertion order; later elements cover earlier ones.
type Screen struct {
	elements []Element
	fields   [fieldCount]*Field
	measures []Measure
	angle    geo.Format
}

func (sc *Screen) add(e Element) {
	sc.elements = append(sc.elements, e)
}

func (sc *Screen) addField(f *Field) {
	sc.fields[f.id] = f
	sc.elements = append(sc.elements, f)
}

// Field returns the field registered under id, or nil.
func (sc *Screen) Field(id FieldID) *Field {
	if id < 0 || id >= fieldCount {
		return nil
	}
	return sc.fields[id]
}

// Len returns the number of elements in the graph.
func (sc *Screen) Len() int {
	return len(sc.elements)
}

// FieldText is the current text of one field.
type FieldText struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Texts returns the text of every registered field in FieldID order.
func (sc *Screen) Texts() []FieldText {
	var out []FieldText
	for _, f := range sc.fields {
		if f != nil {
			out = append(out, FieldText{Name: f.Name(), Text: f.text})
		}
	}
	return out
}

// Paint draws every element back to front. Text errors are collected;
// painting continues past them.
func (sc *Screen) Paint(s Surface) error {
	var errs []error
	for _, e := range sc.elements {
		if err := e.paint(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
