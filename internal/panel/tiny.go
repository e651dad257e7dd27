// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/relabs-tech/gnss_tracker/internal/display"
)

// TinyFont is a display.Font backed by a tinyfont face.
type TinyFont struct {
	Fonter tinyfont.Fonter
}

func (f *TinyFont) Height() int {
	return int(f.Fonter.GetYAdvance())
}

func (f *TinyFont) Width(text string) int {
	_, outbox := tinyfont.LineWidth(f.Fonter, text)
	return int(outbox)
}

// baseline is the distance from the top of the line box to the baseline.
func (f *TinyFont) baseline() int {
	h := f.Height()
	return h - h/4
}

// TinyFonts returns FreeMono 9pt for values and Proggy 8pt for the status line.
func TinyFonts() display.Fonts {
	return display.Fonts{
		Large: &TinyFont{Fonter: &freemono.Regular9pt7b},
		Small: &TinyFont{Fonter: &proggy.TinySZ8pt7b},
	}
}

// rectFiller is implemented by drivers that fill rectangles in hardware
// (ili9341, st7789, ...).
type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// TinySurface draws on any TinyGo display driver. The driver owns rotation;
// Display() is called once per commit.
type TinySurface struct {
	dev      drivers.Displayer
	painting bool
	err      error
}

func NewTinySurface(dev drivers.Displayer) *TinySurface {
	return &TinySurface{dev: dev}
}

func (s *TinySurface) Size() (int, int) {
	w, h := s.dev.Size()
	return int(w), int(h)
}

func (s *TinySurface) BeginPaint() {
	s.painting = true
	s.err = nil
}

func (s *TinySurface) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.bounds())
	if r.Empty() {
		return
	}
	rgba := toRGBA(c)
	if f, ok := s.dev.(rectFiller); ok {
		if err := f.FillRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), rgba); err != nil && s.err == nil {
			s.err = err
		}
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.dev.SetPixel(int16(x), int16(y), rgba)
		}
	}
}

func (s *TinySurface) StrokeRect(r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	s.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	s.FillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	s.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	s.FillRect(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func (s *TinySurface) DrawText(r image.Rectangle, f display.Font, c color.Color, align display.Align, text string) error {
	tf, ok := f.(*TinyFont)
	if !ok {
		return fmt.Errorf("%w: %T", display.ErrFontMismatch, f)
	}
	origin := display.TextOrigin(r, tf.Width(text), tf.Height(), align)
	clip := &clipped{Displayer: s.dev, r: r.Intersect(s.bounds())}
	tinyfont.WriteLine(clip, tf.Fonter, int16(origin.X), int16(origin.Y+tf.baseline()), text, toRGBA(c))
	return nil
}

func (s *TinySurface) DrawImage(r image.Rectangle, img image.Image) {
	r = r.Intersect(s.bounds())
	src := img.Bounds().Min
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			px := img.At(src.X+x-r.Min.X, src.Y+y-r.Min.Y)
			if _, _, _, a := px.RGBA(); a == 0 {
				continue
			}
			s.dev.SetPixel(int16(x), int16(y), toRGBA(px))
		}
	}
}

// EndPaint pushes the frame to the panel. A fill error reported by the
// driver during the transaction is returned together with the flush error.
func (s *TinySurface) EndPaint() error {
	if !s.painting {
		return errors.New("panel: EndPaint without BeginPaint")
	}
	s.painting = false
	return errors.Join(s.err, s.dev.Display())
}

func (s *TinySurface) bounds() image.Rectangle {
	w, h := s.Size()
	return image.Rect(0, 0, w, h)
}

// clipped drops pixels outside r.
type clipped struct {
	drivers.Displayer
	r image.Rectangle
}

func (c *clipped) SetPixel(x, y int16, col color.RGBA) {
	if image.Pt(int(x), int(y)).In(c.r) {
		c.Displayer.SetPixel(x, y, col)
	}
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
