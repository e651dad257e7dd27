// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/geo"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

func newTestPipeline(t *testing.T) (*Pipeline, *recordingSurface, *bytes.Buffer) {
	t.Helper()
	s := newRecordingSurface(320, 240)
	sc, err := newTestBuilder(t).Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	return NewPipeline(sc, s, log.New(&buf, "display: ", 0)), s, &buf
}

func fullSnapshot() env.Snapshot {
	return env.NewSnapshot(map[env.Quantity]env.Reading{
		env.Temperature: env.Some(23.2),
		env.Humidity:    env.Some(78.5),
		env.Pressure:    env.Some(1.2),
		env.Gas:         env.Some(10.4),
		env.Battery:     env.Some(3.71),
		env.Solar:       env.Some(5.02),
	})
}

func testFix() *gps.Fix {
	return &gps.Fix{
		Time:      time.Date(2024, 7, 2, 9, 28, 0, 0, time.UTC),
		Latitude:  &geo.Angle{Degrees: 19, Minutes: 42, Seconds: 39.2},
		Longitude: &geo.Angle{Degrees: -173, Minutes: 45, Seconds: 47.9},
	}
}

func TestUpdate_AllAbsentShowsPlaceholders(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	if err := p.Update(env.Snapshot{}, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sc := p.Screen()
	for _, m := range sc.measures {
		f := sc.Field(measureFields[m.Quantity])
		if f.Text() == "" || f.Text() != f.Placeholder() {
			t.Errorf("%v = %q, want placeholder %q", m.Quantity, f.Text(), f.Placeholder())
		}
	}
	for _, id := range []FieldID{FieldLatitude, FieldLongitude} {
		if got := sc.Field(id).Text(); got != "0°0'0.0\"" {
			t.Errorf("%v = %q, want zero fix", id, got)
		}
	}
	if got := sc.Field(FieldClock).Text(); got != ClockPlaceholder {
		t.Errorf("clock = %q", got)
	}
}

func TestUpdate_FormatsValues(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	if err := p.Update(fullSnapshot(), testFix()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sc := p.Screen()
	want := map[FieldID]string{
		FieldTemperature: "23.2  °C",
		FieldHumidity:    "78.5   %",
		FieldPressure:    "1.20 ATM",
		FieldGas:         "10.4 PPM",
		FieldBattery:     "3.71   V",
		FieldSolar:       "5.02   V",
		FieldLatitude:    "19°42'39.2\"",
		FieldLongitude:   "-173°45'47.9\"",
		FieldClock:       "09:28 AM | 07/02/2024",
		FieldCounter:     "0001",
	}
	for id, w := range want {
		if got := sc.Field(id).Text(); got != w {
			t.Errorf("%v = %q, want %q", id, got, w)
		}
	}
}

func TestUpdate_Counter(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	for i := 1; i <= 3; i++ {
		if err := p.Update(env.Snapshot{}, nil); err != nil {
			t.Fatalf("Update %d: %v", i, err)
		}
		if got, want := p.Screen().Field(FieldCounter).Text(), fmt.Sprintf("%04d", i); got != want {
			t.Errorf("after %d updates counter = %q, want %q", i, got, want)
		}
	}
	if p.Screen().Field(FieldCounter).Text() != "0003" {
		t.Error("third call should read 0003")
	}
	if p.Counter() != 3 {
		t.Errorf("Counter() = %d", p.Counter())
	}
}

func TestUpdate_CounterWraps(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	p.counter = math.MaxUint32

	if err := p.Update(env.Snapshot{}, nil); err != nil {
		t.Fatal(err)
	}
	if got := p.Screen().Field(FieldCounter).Text(); got != "0000" {
		t.Errorf("wrapped counter = %q", got)
	}
}

func TestUpdate_Deterministic(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	texts := func() map[string]string {
		out := map[string]string{}
		for _, ft := range p.Screen().Texts() {
			if ft.Name != "counter" {
				out[ft.Name] = ft.Text
			}
		}
		return out
	}

	if err := p.Update(fullSnapshot(), testFix()); err != nil {
		t.Fatal(err)
	}
	first := texts()
	for i := 0; i < 5; i++ {
		if err := p.Update(fullSnapshot(), testFix()); err != nil {
			t.Fatal(err)
		}
		for name, text := range texts() {
			if first[name] != text {
				t.Errorf("update %d: %s = %q, first was %q", i, name, text, first[name])
			}
		}
	}
}

func TestUpdate_OneTransactionPerCall(t *testing.T) {
	p, s, _ := newTestPipeline(t)

	snaps := []env.Snapshot{
		fullSnapshot(),
		env.Snapshot{},
		fullSnapshot().With(env.Temperature, env.Some(-12.5)),
	}
	fixes := []*gps.Fix{testFix(), nil, testFix()}

	for i := range snaps {
		if err := p.Update(snaps[i], fixes[i]); err != nil {
			t.Fatal(err)
		}
		if s.open {
			t.Fatalf("update %d returned with an open transaction", i)
		}

		// every field painted in the committed frame matches the field state
		frame := s.lastFrame()
		for _, ft := range p.Screen().fields {
			if ft == nil {
				continue
			}
			got, ok := frameText(frame, ft.Rect())
			if !ok {
				t.Errorf("update %d: %v not painted", i, ft.ID())
				continue
			}
			if got != ft.Text() {
				t.Errorf("update %d: %v painted %q, field holds %q", i, ft.ID(), got, ft.Text())
			}
		}
	}

	if s.begins != 3 || s.ends != 3 || len(s.frames) != 3 {
		t.Errorf("begins=%d ends=%d frames=%d, want 3 each", s.begins, s.ends, len(s.frames))
	}
	if got, _ := frameText(s.frames[1], p.Screen().Field(FieldTemperature).Rect()); got != "0.0  °C" {
		t.Errorf("second frame temperature = %q", got)
	}
	if got, _ := frameText(s.frames[2], p.Screen().Field(FieldTemperature).Rect()); got != "-12.5  °C" {
		t.Errorf("third frame temperature = %q", got)
	}
}

func TestUpdate_FormatErrorFallsBack(t *testing.T) {
	p, s, logs := newTestPipeline(t)

	snap := fullSnapshot().
		With(env.Humidity, env.Some(math.NaN())).
		With(env.Temperature, env.Some(500))
	fix := testFix()
	fix.Latitude = &geo.Angle{Degrees: 10, Minutes: 75}

	if err := p.Update(snap, fix); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.ends != 1 {
		t.Errorf("commit ran %d times", s.ends)
	}

	sc := p.Screen()
	for _, id := range []FieldID{FieldHumidity, FieldTemperature, FieldLatitude} {
		f := sc.Field(id)
		if f.Text() != f.Placeholder() {
			t.Errorf("%v = %q, want placeholder", id, f.Text())
		}
	}
	if got := sc.Field(FieldPressure).Text(); got != "1.20 ATM" {
		t.Errorf("pressure = %q, rest of the frame should still update", got)
	}
	for _, name := range []string{"humidity", "temperature", "latitude"} {
		if !strings.Contains(logs.String(), name+":") {
			t.Errorf("log does not mention %s: %q", name, logs.String())
		}
	}
}

func TestUpdate_PartialFix(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	fix := &gps.Fix{Latitude: &geo.Angle{Degrees: 19, Minutes: 42, Seconds: 39.2}}

	if err := p.Update(env.Snapshot{}, fix); err != nil {
		t.Fatal(err)
	}
	sc := p.Screen()
	if got := sc.Field(FieldLatitude).Text(); got != "19°42'39.2\"" {
		t.Errorf("latitude = %q", got)
	}
	if got := sc.Field(FieldLongitude).Text(); got != "0°0'0.0\"" {
		t.Errorf("longitude = %q, want zero fix", got)
	}
	if got := sc.Field(FieldClock).Text(); got != ClockPlaceholder {
		t.Errorf("clock = %q, want placeholder", got)
	}
}

func TestUpdate_CommitFailure(t *testing.T) {
	p, s, _ := newTestPipeline(t)
	driverErr := errors.New("i2c: nack")
	s.failCommit = driverErr

	err := p.Update(fullSnapshot(), nil)
	if !errors.Is(err, ErrCommit) || !errors.Is(err, driverErr) {
		t.Fatalf("Update error = %v, want ErrCommit wrapping the driver error", err)
	}
	if s.open {
		t.Error("transaction left open after a failed commit")
	}

	s.failCommit = nil
	if err := p.Update(fullSnapshot(), nil); err != nil {
		t.Fatalf("Update after recovery: %v", err)
	}
	if got := p.Screen().Field(FieldCounter).Text(); got != "0002" {
		t.Errorf("counter = %q", got)
	}
}

func TestUpdate_FieldsNeverReallocated(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	sc := p.Screen()

	before := make([]*Field, 0, fieldCount)
	for _, f := range sc.fields {
		before = append(before, f)
	}
	n := sc.Len()

	for i := 0; i < 4; i++ {
		if err := p.Update(fullSnapshot(), testFix()); err != nil {
			t.Fatal(err)
		}
	}

	for i, f := range sc.fields {
		if f != before[i] {
			t.Errorf("field %d reallocated", i)
		}
	}
	if sc.Len() != n {
		t.Errorf("graph grew from %d to %d elements", n, sc.Len())
	}
}
