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
	"github.com/relabs-tech/gnss_tracker/internal/geo"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// ErrCommit wraps a driver failure while flushing a frame. The previous
// frame stays on the panel; the next update may succeed.
var ErrCommit = errors.New("display: commit failed")

// Pipeline applies readings to a built screen, one paint transaction per call.
// It is not safe for concurrent use: callers must not start an Update before
// the previous one returned.
type Pipeline struct {
	screen  *Screen
	surface Surface
	log     *log.Logger
	counter uint32
}

// NewPipeline binds a screen to the surface it was built for.
func NewPipeline(sc *Screen, s Surface, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{screen: sc, surface: s, log: logger}
}

// Counter returns the number of updates applied so far.
func (p *Pipeline) Counter() uint32 {
	return p.counter
}

// Screen returns the screen the pipeline mutates.
func (p *Pipeline) Screen() *Screen {
	return p.screen
}

// Update formats snapshot and fix into the screen's fields and commits the
// frame. Formatting failures fall back to placeholders and are logged; only
// a failed commit is returned, wrapped in ErrCommit.
func (p *Pipeline) Update(snapshot env.Snapshot, fix *gps.Fix) (err error) {
	p.surface.BeginPaint()
	defer func() {
		if cerr := p.surface.EndPaint(); cerr != nil {
			err = fmt.Errorf("%w: %w", ErrCommit, cerr)
		}
	}()

	p.apply(snapshot, fix)

	if perr := p.screen.Paint(p.surface); perr != nil {
		p.log.Printf("paint: %v", perr)
	}
	return nil
}

func (p *Pipeline) apply(snapshot env.Snapshot, fix *gps.Fix) {
	sc := p.screen

	for _, m := range sc.measures {
		f := sc.Field(measureFields[m.Quantity])
		if f == nil {
			continue
		}
		text, err := m.Format(snapshot.Get(m.Quantity))
		if err != nil {
			p.log.Printf("%s: %v", f.Name(), err)
			text = f.placeholder
		}
		f.setText(text)
	}

	lat, lon := fix.Angles()
	p.setAngle(FieldLatitude, lat)
	p.setAngle(FieldLongitude, lon)

	if f := sc.Field(FieldClock); f != nil {
		if t, ok := fix.When(); ok {
			f.setText(t.Format(ClockLayout))
		} else {
			f.setText(f.placeholder)
		}
	}

	p.counter++
	if f := sc.Field(FieldCounter); f != nil {
		f.setText(fmt.Sprintf("%04d", p.counter))
	}
}

func (p *Pipeline) setAngle(id FieldID, a *geo.Angle) {
	f := p.screen.Field(id)
	if f == nil {
		return
	}
	text, err := p.screen.angle.Format(a)
	if err != nil {
		p.log.Printf("%s: %v", f.Name(), err)
		text = f.placeholder
	}
	f.setText(text)
}
