// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import "fmt"

// Quantity names one measurement shown on the panel.
type Quantity int

const (
	Temperature Quantity = iota // °C
	Humidity                    // %RH
	Pressure                    // atm
	Gas                         // ppm CO2
	Battery                     // V
	Solar                       // V

	quantityCount
)

var quantityNames = [quantityCount]string{
	Temperature: "temperature",
	Humidity:    "humidity",
	Pressure:    "pressure",
	Gas:         "gas",
	Battery:     "battery",
	Solar:       "solar",
}

func (q Quantity) String() string {
	if q < 0 || q >= quantityCount {
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
	return quantityNames[q]
}

// Quantities returns every known quantity in panel order.
func Quantities() []Quantity {
	qs := make([]Quantity, quantityCount)
	for i := range qs {
		qs[i] = Quantity(i)
	}
	return qs
}

// ParseQuantity maps a configuration name such as "humidity" to its Quantity.
func ParseQuantity(name string) (Quantity, error) {
	for i, n := range quantityNames {
		if n == name {
			return Quantity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quantity %q", name)
}

// Reading is an optional scalar. The zero value means "no reading yet".
type Reading struct {
	Value float64
	Valid bool
}

// Some returns a present reading.
func Some(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

// Snapshot is the per-tick bundle of readings consumed by one panel update.
type Snapshot struct {
	readings [quantityCount]Reading
}

// NewSnapshot builds a snapshot from the given readings. Absent keys stay empty.
func NewSnapshot(readings map[Quantity]Reading) Snapshot {
	var s Snapshot
	for q, r := range readings {
		if q >= 0 && q < quantityCount {
			s.readings[q] = r
		}
	}
	return s
}

// With returns a copy of s with q set to r.
func (s Snapshot) With(q Quantity, r Reading) Snapshot {
	if q >= 0 && q < quantityCount {
		s.readings[q] = r
	}
	return s
}

// Get returns the reading for q.
func (s Snapshot) Get(q Quantity) Reading {
	if q < 0 || q >= quantityCount {
		return Reading{}
	}
	return s.readings[q]
}
