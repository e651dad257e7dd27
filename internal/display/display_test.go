// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"bytes"
	"errors"
	"image"
	"log"
	"strings"
	"testing"

	"github.com/relabs-tech/gnss_tracker/internal/env"
)

func TestDisplay_UpdateBeforeLoad(t *testing.T) {
	d := New(newRecordingSurface(320, 240), nil)
	if err := d.Update(env.Snapshot{}, nil); !errors.Is(err, ErrNoPanel) {
		t.Errorf("Update error = %v, want ErrNoPanel", err)
	}
}

func TestDisplay_LoadPaintsPlaceholders(t *testing.T) {
	s := newRecordingSurface(320, 240)
	d := New(s, nil)

	if err := d.Load(newTestBuilder(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.frames) != 1 {
		t.Fatalf("Load committed %d frames, want 1", len(s.frames))
	}
	lat := d.Screen().Field(FieldLatitude)
	if got, _ := frameText(s.lastFrame(), lat.Rect()); got != "0°0'0.0\"" {
		t.Errorf("first paint latitude = %q", got)
	}
}

func TestDisplay_FailedLoadKeepsPreviousScreen(t *testing.T) {
	var logs bytes.Buffer
	s := newRecordingSurface(320, 240)
	d := New(s, log.New(&logs, "display: ", 0))

	if err := d.Load(newTestBuilder(t)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := d.Update(fullSnapshot(), nil); err != nil {
		t.Fatal(err)
	}
	prev := d.Screen()
	frames := len(s.frames)

	bad := newTestBuilder(t)
	bad.Fonts.Large = nil
	if err := d.Load(bad); !errors.Is(err, ErrMissingFont) {
		t.Fatalf("Load error = %v", err)
	}
	if d.Screen() != prev {
		t.Error("failed load replaced the screen")
	}
	if len(s.frames) != frames {
		t.Error("failed load painted a frame")
	}
	if !strings.Contains(logs.String(), "layout:") {
		t.Errorf("failure not logged: %q", logs.String())
	}

	// the old pipeline keeps working
	if err := d.Update(fullSnapshot(), nil); err != nil {
		t.Fatalf("Update after failed load: %v", err)
	}
	if got := d.Screen().Field(FieldCounter).Text(); got != "0002" {
		t.Errorf("counter = %q", got)
	}
}

func TestDisplay_SplashThenPanel(t *testing.T) {
	var logs bytes.Buffer
	s := newRecordingSurface(320, 240)
	d := New(s, log.New(&logs, "", 0))
	b := newTestBuilder(t)
	loader := mapLoader{"logo": image.NewRGBA(image.Rect(0, 0, 40, 40))}

	// a broken resource is logged and nothing is shown
	if err := d.ShowSplash(b, loader, "nope"); err == nil {
		t.Fatal("ShowSplash with missing resource should fail")
	}
	if d.Screen() != nil || len(s.frames) != 0 {
		t.Error("failed splash changed the display")
	}
	if !strings.Contains(logs.String(), "splash:") {
		t.Errorf("splash failure not logged: %q", logs.String())
	}

	if err := d.ShowSplash(b, loader, "logo"); err != nil {
		t.Fatalf("ShowSplash: %v", err)
	}
	if got := s.lastFrame(); len(got) != 1 || got[0].text != b.Title {
		t.Errorf("splash frame = %+v", got)
	}
	if err := d.Update(env.Snapshot{}, nil); !errors.Is(err, ErrNoPanel) {
		t.Errorf("Update on splash = %v, want ErrNoPanel", err)
	}

	if err := d.Load(b); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := d.Update(env.Snapshot{}, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestDisplay_CounterSurvivesReload(t *testing.T) {
	d := New(newRecordingSurface(320, 240), nil)
	b := newTestBuilder(t)

	if err := d.Load(b); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := d.Update(env.Snapshot{}, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.Load(newTestBuilder(t, env.Temperature)); err != nil {
		t.Fatal(err)
	}
	if err := d.Update(env.Snapshot{}, nil); err != nil {
		t.Fatal(err)
	}
	if got := d.Screen().Field(FieldCounter).Text(); got != "0003" {
		t.Errorf("counter after reload = %q, want 0003", got)
	}
}
