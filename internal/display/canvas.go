// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// ErrFontMismatch is returned when a surface is handed a font it cannot render.
var ErrFontMismatch = errors.New("display: font not supported by surface")

// Flusher receives every committed frame in physical orientation.
type Flusher interface {
	Flush(frame image.Image) error
}

// FlusherFunc adapts a function to Flusher.
type FlusherFunc func(frame image.Image) error

func (f FlusherFunc) Flush(frame image.Image) error { return f(frame) }

// FaceFont is a Font backed by an x/image face.
type FaceFont struct {
	Face font.Face
}

func (f *FaceFont) Height() int {
	return f.Face.Metrics().Height.Ceil()
}

func (f *FaceFont) Width(text string) int {
	return font.MeasureString(f.Face, text).Ceil()
}

// DefaultFonts returns Inconsolata 8x16 for values and the 7x13 basic face
// for the status line.
func DefaultFonts() Fonts {
	return Fonts{
		Large: &FaceFont{Face: inconsolata.Regular8x16},
		Small: &FaceFont{Face: basicfont.Face7x13},
	}
}

// Canvas is a raster Surface. Drawing goes to a logical RGBA buffer; EndPaint
// rotates it into the physical frame and hands it to the flusher once.
type Canvas struct {
	logical  *image.RGBA
	frame    *image.RGBA
	rotation Rotation
	out      Flusher
	painting bool
}

// NewCanvas returns a canvas for a physical w x h panel.
func NewCanvas(w, h int, rot Rotation, out Flusher) *Canvas {
	lw, lh := rot.Logical(w, h)
	return &Canvas{
		logical:  image.NewRGBA(image.Rect(0, 0, lw, lh)),
		frame:    image.NewRGBA(image.Rect(0, 0, w, h)),
		rotation: rot,
		out:      out,
	}
}

func (c *Canvas) Size() (int, int) {
	b := c.logical.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) BeginPaint() {
	c.painting = true
}

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.logical, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) StrokeRect(r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	u := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(c.logical, e, u, image.Point{}, draw.Src)
	}
}

func (c *Canvas) DrawText(r image.Rectangle, f Font, col color.Color, align Align, text string) error {
	ff, ok := f.(*FaceFont)
	if !ok {
		return fmt.Errorf("%w: %T", ErrFontMismatch, f)
	}

	origin := TextOrigin(r, ff.Width(text), ff.Height(), align)
	dst, ok := c.logical.SubImage(r).(*image.RGBA)
	if !ok {
		return nil
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: ff.Face,
		Dot:  fixed.P(origin.X, origin.Y+ff.Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}

func (c *Canvas) DrawImage(r image.Rectangle, img image.Image) {
	draw.Draw(c.logical, r, img, img.Bounds().Min, draw.Over)
}

// EndPaint rotates the logical buffer into the frame and flushes it.
func (c *Canvas) EndPaint() error {
	if !c.painting {
		return errors.New("display: EndPaint without BeginPaint")
	}
	c.painting = false

	c.rotate()
	if c.out == nil {
		return nil
	}
	return c.out.Flush(c.frame)
}

// Frame returns the last committed frame in physical orientation.
func (c *Canvas) Frame() *image.RGBA {
	return c.frame
}

// Logical returns the logical buffer.
func (c *Canvas) Logical() *image.RGBA {
	return c.logical
}

func (c *Canvas) rotate() {
	if c.rotation == Rotate0 {
		copy(c.frame.Pix, c.logical.Pix)
		return
	}

	lb := c.logical.Bounds()
	pw, ph := c.frame.Bounds().Dx(), c.frame.Bounds().Dy()
	for y := 0; y < lb.Dy(); y++ {
		for x := 0; x < lb.Dx(); x++ {
			var px, py int
			switch c.rotation {
			case Rotate90:
				px, py = pw-1-y, x
			case Rotate180:
				px, py = pw-1-x, ph-1-y
			case Rotate270:
				px, py = y, ph-1-x
			}
			c.frame.SetRGBA(px, py, c.logical.RGBAAt(x, y))
		}
	}
}
