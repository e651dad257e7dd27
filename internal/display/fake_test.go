// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"image"
	"image/color"
	"unicode/utf8"
)

// cellFont is a fixed-cell font: every rune is 6px wide.
type cellFont struct {
	height int
}

func (f cellFont) Height() int { return f.height }

func (f cellFont) Width(text string) int { return 6 * utf8.RuneCountInString(text) }

func testFonts() Fonts {
	return Fonts{Large: cellFont{height: 10}, Small: cellFont{height: 8}}
}

type textRun struct {
	rect image.Rectangle
	text string
}

// recordingSurface records every text run of a paint transaction and
// keeps the runs of each committed frame.
type recordingSurface struct {
	w, h int

	begins  int
	ends    int
	open    bool
	current []textRun
	frames  [][]textRun
	fills   []image.Rectangle

	failCommit error
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }

func (s *recordingSurface) BeginPaint() {
	s.begins++
	s.open = true
	s.current = nil
}

func (s *recordingSurface) FillRect(r image.Rectangle, _ color.Color) {
	s.fills = append(s.fills, r)
}

func (s *recordingSurface) StrokeRect(image.Rectangle, color.Color) {}

func (s *recordingSurface) DrawText(r image.Rectangle, _ Font, _ color.Color, _ Align, text string) error {
	s.current = append(s.current, textRun{rect: r, text: text})
	return nil
}

func (s *recordingSurface) DrawImage(image.Rectangle, image.Image) {}

func (s *recordingSurface) EndPaint() error {
	s.ends++
	s.open = false
	if s.failCommit != nil {
		return s.failCommit
	}
	s.frames = append(s.frames, s.current)
	return nil
}

func (s *recordingSurface) lastFrame() []textRun {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// frameText returns the text the frame painted inside rect r.
func frameText(frame []textRun, r image.Rectangle) (string, bool) {
	for _, run := range frame {
		if run.rect == r {
			return run.text, true
		}
	}
	return "", false
}

var errNoResource = errors.New("no such resource")

type mapLoader map[string]image.Image

func (m mapLoader) Load(name string) (image.Image, error) {
	img, ok := m[name]
	if !ok {
		return nil, errNoResource
	}
	return img, nil
}
