// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display builds the instrument panel screen and applies per-tick
// updates to it inside begin/end bracketed paint transactions.
package display

import (
	"fmt"
	"image"
	"image/color"
)

// Surface is the capability a physical panel exposes to the panel core.
// Coordinates are logical: any rotation is applied by the surface.
//
// All drawing happens between BeginPaint and EndPaint; EndPaint flushes the
// frame to the device in one transfer.
type Surface interface {
	Size() (width, height int)
	BeginPaint()
	FillRect(r image.Rectangle, c color.Color)
	StrokeRect(r image.Rectangle, c color.Color)
	DrawText(r image.Rectangle, f Font, c color.Color, align Align, text string) error
	DrawImage(r image.Rectangle, img image.Image)
	EndPaint() error
}

// Font is an opaque font handle. The core only needs its cell height for
// vertical layout and text width for fit checks.
type Font interface {
	Height() int
	Width(text string) int
}

// HAlign is horizontal text alignment inside a rectangle.
type HAlign int

const (
	Left HAlign = iota
	Center
	Right
)

// VAlign is vertical text alignment inside a rectangle.
type VAlign int

const (
	Top VAlign = iota
	Middle
	Bottom
)

// Align combines both alignments.
type Align struct {
	H HAlign
	V VAlign
}

var (
	AlignLeft  = Align{H: Left, V: Top}
	AlignRight = Align{H: Right, V: Top}
)

// TextOrigin returns the top-left corner for a text run of size (w, h)
// placed in r with the given alignment.
func TextOrigin(r image.Rectangle, w, h int, a Align) image.Point {
	p := r.Min
	switch a.H {
	case Center:
		p.X += (r.Dx() - w) / 2
	case Right:
		p.X = r.Max.X - w
	}
	switch a.V {
	case Middle:
		p.Y += (r.Dy() - h) / 2
	case Bottom:
		p.Y = r.Max.Y - h
	}
	return p
}

// Rotation is the clockwise rotation between logical and physical pixels.
type Rotation int

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// ParseRotation maps 0, 90, 180 or 270 degrees to a Rotation.
func ParseRotation(degrees int) (Rotation, error) {
	switch degrees {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return 0, fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", degrees)
}

// Logical returns the logical size of a physical w x h panel.
func (r Rotation) Logical(w, h int) (int, int) {
	if r == Rotate90 || r == Rotate270 {
		return h, w
	}
	return w, h
}
