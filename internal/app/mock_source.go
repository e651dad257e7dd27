// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"math"
	"time"

	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// mockSource generates smooth synthetic readings and a receiver circling
// a fixed point once every ten minutes.
type mockSource struct {
	start     time.Time
	centerLat float64
	centerLon float64
}

func newMockSource(start time.Time) *mockSource {
	return &mockSource{start: start, centerLat: 19.7109, centerLon: -173.7633}
}

type mockFrame struct {
	Sample env.Sample
	Power  env.Power
	Gas    env.GasSample
	Report gps.Report
}

func (m *mockSource) at(now time.Time) mockFrame {
	t := now.Sub(m.start).Seconds()

	humidity := 45 + 10*math.Sin(t/45)
	battery := 3.9 + 0.25*math.Sin(t/120)
	solar := math.Max(0, 5.5*math.Sin(t/300))

	const period = 600.0 // s per lap
	const radius = 0.01  // degrees
	phase := 2 * math.Pi * math.Mod(t, period) / period
	lat := m.centerLat + radius*math.Sin(phase)
	lon := m.centerLon + radius*math.Cos(phase)

	// 2πr per lap, r in nautical miles (1° latitude = 60 nm)
	knots := 2 * math.Pi * radius * 60 / (period / 3600)
	course := math.Mod(360-phase*180/math.Pi, 360)

	return mockFrame{
		Sample: env.Sample{
			Source:      "mock",
			Temperature: 21 + 4*math.Sin(t/60),
			Pressure:    101325 + 300*math.Cos(t/90),
			Humidity:    &humidity,
		},
		Power: env.Power{Battery: &battery, Solar: &solar},
		Gas:   env.GasSample{CO2: 420 + 30*math.Sin(t/30)},
		Report: gps.Report{
			Time:       now.UTC().Format(time.RFC3339),
			Latitude:   &lat,
			Longitude:  &lon,
			SpeedKnots: knots,
			CourseDeg:  course,
			Validity:   "A",
			Satellites: 8,
		},
	}
}

// feed stores one frame in the collector.
func (f mockFrame) feed(c *Collector) {
	c.SetSample(f.Sample)
	c.SetPower(f.Power)
	c.SetGas(f.Gas)
	c.SetReport(f.Report)
}
