// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"image"
	"image/color"

	"github.com/relabs-tech/gnss_tracker/internal/display"
)

// Framebuffer is an in-memory drivers.Displayer. It lets TinySurface run on a
// regular Linux host, where Display hands the frame to a flusher (OLED,
// simulator window).
type Framebuffer struct {
	img *image.RGBA
	out display.Flusher
}

func NewFramebuffer(w, h int, out display.Flusher) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, w, h)), out: out}
}

func (fb *Framebuffer) Size() (x, y int16) {
	b := fb.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if !image.Pt(int(x), int(y)).In(fb.img.Bounds()) {
		return
	}
	fb.img.SetRGBA(int(x), int(y), c)
}

func (fb *Framebuffer) Display() error {
	if fb.out == nil {
		return nil
	}
	return fb.out.Flush(fb.img)
}

// Image returns the backing buffer.
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}
