// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"strings"
	"testing"

	"github.com/relabs-tech/gnss_tracker/internal/geo"
)

const (
	rmcValid = "$GPRMC,092751.000,A,1942.6533,N,17345.7983,W,0.06,31.66,070224,,,A*4F"
	ggaValid = "$GPGGA,092751.000,1942.6533,N,17345.7983,W,1,08,1.03,61.7,M,55.2,M,,*42"
)

func TestDecoder_RMC(t *testing.T) {
	var d Decoder

	if _, ok, err := d.Feed(ggaValid); err != nil || ok {
		t.Fatalf("Feed(GGA) = ok %v, err %v; want no report", ok, err)
	}

	rep, ok, err := d.Feed(rmcValid)
	if err != nil {
		t.Fatalf("Feed(RMC) error: %v", err)
	}
	if !ok {
		t.Fatal("Feed(RMC) returned no report")
	}
	if rep.Validity != "A" {
		t.Errorf("Validity = %q, want A", rep.Validity)
	}
	if rep.Satellites != 8 {
		t.Errorf("Satellites = %d, want 8", rep.Satellites)
	}
	if rep.Time != "2024-02-07T09:27:51Z" {
		t.Errorf("Time = %q", rep.Time)
	}
	if rep.Latitude == nil || rep.Longitude == nil {
		t.Fatal("report is missing coordinates")
	}

	fix, err := rep.Fix()
	if err != nil {
		t.Fatalf("Fix() error: %v", err)
	}
	lat, lon := fix.Angles()
	gotLat, _ := geo.DefaultFormat.Format(lat)
	gotLon, _ := geo.DefaultFormat.Format(lon)
	if gotLat != "19°42'39.2\"" {
		t.Errorf("latitude = %q", gotLat)
	}
	if gotLon != "-173°45'47.9\"" {
		t.Errorf("longitude = %q", gotLon)
	}
}

func TestDecoder_IgnoresNoise(t *testing.T) {
	var d Decoder
	for _, line := range []string{"", "   ", "garbage", "GPRMC,no,dollar"} {
		if _, ok, err := d.Feed(line); ok || err != nil {
			t.Errorf("Feed(%q) = ok %v, err %v", line, ok, err)
		}
	}
}

func TestDecoder_BadChecksum(t *testing.T) {
	var d Decoder
	bad := strings.Replace(rmcValid, "*4F", "*00", 1)
	if _, _, err := d.Feed(bad); err == nil {
		t.Error("Feed with bad checksum should fail")
	}
}

func TestScan(t *testing.T) {
	input := strings.Join([]string{ggaValid, "noise", rmcValid, rmcValid}, "\r\n") + "\r\n"

	var reports []Report
	err := Scan(strings.NewReader(input), func(r Report) error {
		reports = append(reports, r)
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	input := rmcValid + "\n" + rmcValid + "\n"

	calls := 0
	err := Scan(strings.NewReader(input), func(Report) error {
		calls++
		return stop
	}, nil)
	if !errors.Is(err, stop) {
		t.Errorf("Scan error = %v, want stop", err)
	}
	if calls != 1 {
		t.Errorf("callback called %d times, want 1", calls)
	}
}

func TestReportFix_NoFix(t *testing.T) {
	if _, err := (Report{Validity: "V"}).Fix(); !errors.Is(err, ErrNoFix) {
		t.Errorf("void report error = %v, want ErrNoFix", err)
	}
	if _, err := (Report{Validity: "A"}).Fix(); !errors.Is(err, ErrNoFix) {
		t.Errorf("report without coordinates error = %v, want ErrNoFix", err)
	}

	bad := 500.0
	if _, err := (Report{Validity: "A", Latitude: &bad}).Fix(); !errors.Is(err, geo.ErrAngleRange) {
		t.Errorf("out of range latitude error = %v", err)
	}
}

func TestFix_NilSafe(t *testing.T) {
	var f *Fix
	lat, lon := f.Angles()
	if lat != nil || lon != nil {
		t.Error("nil fix should have nil angles")
	}
	if _, ok := f.When(); ok {
		t.Error("nil fix should have no time")
	}
}

func TestReportFix_PartialPosition(t *testing.T) {
	lat := 12.5
	f, err := (Report{Validity: "A", Latitude: &lat}).Fix()
	if err != nil {
		t.Fatalf("Fix() error: %v", err)
	}
	if f.Latitude == nil || f.Longitude != nil {
		t.Errorf("Fix() = %+v, want latitude only", f)
	}
}

func TestReportFix_BadTimeKeepsPosition(t *testing.T) {
	lat, lon := 19.7109, -173.7633
	f, err := (Report{Time: "not a time", Validity: "A", Latitude: &lat, Longitude: &lon}).Fix()
	if err != nil {
		t.Fatalf("Fix() error: %v", err)
	}
	if f.Latitude == nil || f.Longitude == nil {
		t.Errorf("Fix() = %+v, want both coordinates", f)
	}
	if _, ok := f.When(); ok {
		t.Error("fix with a bad timestamp should have no time")
	}
}
