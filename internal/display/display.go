// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// ErrNoPanel is returned by Update while no panel layout is installed.
var ErrNoPanel = errors.New("display: no panel layout loaded")

// Display owns the current screen of one surface. A new screen replaces the
// current one only after it was built completely.
type Display struct {
	surface  Surface
	log      *log.Logger
	screen   *Screen
	pipeline *Pipeline
	counter  uint32
}

// New returns a display with nothing on screen.
func New(s Surface, logger *log.Logger) *Display {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Display{surface: s, log: logger}
}

// Screen returns the screen currently shown, or nil.
func (d *Display) Screen() *Screen {
	return d.screen
}

// Load builds the panel layout and shows it with placeholders. On failure the
// error is logged and returned, and the previous screen stays up.
func (d *Display) Load(b *Builder) error {
	sc, err := b.Build(d.surface)
	if err != nil {
		d.log.Printf("layout: %v", err)
		return err
	}

	if d.pipeline != nil {
		d.counter = d.pipeline.counter
	}
	p := NewPipeline(sc, d.surface, d.log)
	p.counter = d.counter

	d.screen = sc
	d.pipeline = p
	return d.show(sc)
}

// ShowSplash builds and shows a splash screen from the named resource.
// Load failures are logged and leave the current screen intact.
func (d *Display) ShowSplash(b *Builder, loader ResourceLoader, name string) error {
	sc, err := b.BuildSplash(d.surface, loader, name)
	if err != nil {
		d.log.Printf("splash: %v", err)
		return err
	}

	if d.pipeline != nil {
		d.counter = d.pipeline.counter
	}
	d.screen = sc
	d.pipeline = nil
	return d.show(sc)
}

// Update applies one tick of readings to the panel.
func (d *Display) Update(snapshot env.Snapshot, fix *gps.Fix) error {
	if d.pipeline == nil {
		return ErrNoPanel
	}
	return d.pipeline.Update(snapshot, fix)
}

func (d *Display) show(sc *Screen) error {
	d.surface.BeginPaint()
	if err := sc.Paint(d.surface); err != nil {
		d.log.Printf("paint: %v", err)
	}
	if err := d.surface.EndPaint(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}
	return nil
}
