// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

// Sample is a single environmental measurement published on TOPIC_ENV.
// Humidity is nil for sensors without a humidity channel (BMP280).
type Sample struct {
	Source string `json:"source"` // sensor name, e.g. "bme280"

	Temperature float64  `json:"temp_c"`                 // °C
	Pressure    float64  `json:"pressure_pa"`            // Pa
	Humidity    *float64 `json:"humidity_pct,omitempty"` // %RH
}

// Power is a battery/solar voltage pair published on TOPIC_POWER.
type Power struct {
	Battery *float64 `json:"battery_v,omitempty"`
	Solar   *float64 `json:"solar_v,omitempty"`
}

// GasSample is a gas concentration reading published on TOPIC_GAS.
type GasSample struct {
	CO2 float64 `json:"co2_ppm"`
}

// PascalsPerAtm converts sensor pressure to the standard atmospheres shown on the panel.
const PascalsPerAtm = 101325.0
