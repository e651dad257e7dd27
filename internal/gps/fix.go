// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"time"

	"github.com/relabs-tech/gnss_tracker/internal/geo"
)

// ErrNoFix is returned when a report carries no usable position.
var ErrNoFix = errors.New("gps: no fix")

// Report is a single combined GPS fix suitable for JSON and MQTT.
type Report struct {
	Time       string   `json:"time,omitempty"` // RFC3339, UTC
	Latitude   *float64 `json:"lat,omitempty"`  // decimal degrees
	Longitude  *float64 `json:"lon,omitempty"`  // decimal degrees
	SpeedKnots float64  `json:"speed_knots"`    // speed over ground
	CourseDeg  float64  `json:"course_deg"`     // course over ground
	Validity   string   `json:"validity"`       // "A" (valid) / "V" (void)
	Satellites int      `json:"satellites"`     // from the last GGA
}

// Fix is a position resolved for display. Either angle may be nil when
// the receiver did not report it.
type Fix struct {
	Time      time.Time
	Latitude  *geo.Angle
	Longitude *geo.Angle
}

// Fix converts the report into a display fix. Void reports return ErrNoFix.
func (r Report) Fix() (*Fix, error) {
	if r.Validity != "A" {
		return nil, ErrNoFix
	}

	// a bad timestamp only costs the clock, the position is still good
	f := &Fix{}
	if t, err := time.Parse(time.RFC3339, r.Time); err == nil {
		f.Time = t
	}
	if r.Latitude != nil {
		a, err := geo.Decompose(*r.Latitude)
		if err != nil {
			return nil, fmt.Errorf("gps: latitude: %w", err)
		}
		f.Latitude = &a
	}
	if r.Longitude != nil {
		a, err := geo.Decompose(*r.Longitude)
		if err != nil {
			return nil, fmt.Errorf("gps: longitude: %w", err)
		}
		f.Longitude = &a
	}
	if f.Latitude == nil && f.Longitude == nil {
		return nil, ErrNoFix
	}
	return f, nil
}

// Angles returns the latitude and longitude of f. It is safe on a nil Fix.
func (f *Fix) Angles() (lat, lon *geo.Angle) {
	if f == nil {
		return nil, nil
	}
	return f.Latitude, f.Longitude
}

// When returns the fix time and whether one is known. It is safe on a nil Fix.
func (f *Fix) When() (time.Time, bool) {
	if f == nil || f.Time.IsZero() {
		return time.Time{}, false
	}
	return f.Time, true
}
