// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package window shows committed panel frames in a desktop window.
package window

import (
	"image"
	"image/draw"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Window is a display.Flusher backed by an ebiten window. Flush may be
// called from any goroutine; Run must be called from the main goroutine.
type Window struct {
	title string
	scale int

	mu     sync.Mutex
	frame  *image.RGBA
	dirty  bool
	closed bool
}

// New returns a window for a w x h panel, magnified by scale.
func New(w, h, scale int, title string) *Window {
	if scale < 1 {
		scale = 1
	}
	return &Window{
		title: title,
		scale: scale,
		frame: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

func (win *Window) Flush(frame image.Image) error {
	win.mu.Lock()
	defer win.mu.Unlock()
	draw.Draw(win.frame, win.frame.Bounds(), frame, frame.Bounds().Min, draw.Src)
	win.dirty = true
	return nil
}

// Close makes Run return after the next tick.
func (win *Window) Close() {
	win.mu.Lock()
	win.closed = true
	win.mu.Unlock()
}

// Run opens the window and blocks until it is closed.
func (win *Window) Run() error {
	b := win.frame.Bounds()
	ebiten.SetWindowTitle(win.title)
	ebiten.SetWindowSize(b.Dx()*win.scale, b.Dy()*win.scale)
	ebiten.SetTPS(30)
	return ebiten.RunGame(&game{win: win})
}

type game struct {
	win *Window
	img *ebiten.Image
}

func (g *game) Update() error {
	g.win.mu.Lock()
	defer g.win.mu.Unlock()
	if g.win.closed {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.win.mu.Lock()
	if g.img == nil {
		b := g.win.frame.Bounds()
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
		g.win.dirty = true
	}
	if g.win.dirty {
		g.img.WritePixels(g.win.frame.Pix)
		g.win.dirty = false
	}
	g.win.mu.Unlock()

	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	b := g.win.frame.Bounds()
	return b.Dx(), b.Dy()
}
