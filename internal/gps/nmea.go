// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"
)

// Decoder accumulates NMEA sentences into Reports. RMC completes a report;
// GGA only refreshes the satellite count.
type Decoder struct {
	current Report
}

// Feed parses one line. It returns a report each time an RMC sentence is decoded.
// Lines that are not NMEA sentences are ignored without error.
func (d *Decoder) Feed(line string) (Report, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return Report{}, false, nil
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return Report{}, false, err
	}

	switch sentence.DataType() {
	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		d.current.Satellites = int(m.NumSatellites)

	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)

		d.current.Validity = m.Validity
		d.current.SpeedKnots = m.Speed
		d.current.CourseDeg = m.Course
		d.current.Time = ""
		if m.Date.Valid && m.Time.Valid {
			t := time.Date(2000+m.Date.YY, time.Month(m.Date.MM), m.Date.DD,
				m.Time.Hour, m.Time.Minute, m.Time.Second, m.Time.Millisecond*int(time.Millisecond), time.UTC)
			d.current.Time = t.Format(time.RFC3339)
		}

		if m.Validity == nmea.ValidRMC {
			lat, lon := m.Latitude, m.Longitude
			d.current.Latitude = &lat
			d.current.Longitude = &lon
		} else {
			d.current.Latitude = nil
			d.current.Longitude = nil
		}
		return d.current, true, nil

	default:
		// GSA, GSV, VTG... not shown on the panel
	}
	return Report{}, false, nil
}
