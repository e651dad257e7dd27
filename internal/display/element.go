// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"image"
	"image/color"
)

// Element is one node of the screen graph.
type Element interface {
	paint(s Surface) error
}

// Box is a filled or outlined rectangle.
type Box struct {
	Rect   image.Rectangle
	Color  color.Color
	Filled bool
}

func (b *Box) paint(s Surface) error {
	if b.Filled {
		s.FillRect(b.Rect, b.Color)
	} else {
		s.StrokeRect(b.Rect, b.Color)
	}
	return nil
}

// Label is a static caption.
type Label struct {
	Rect  image.Rectangle
	Font  Font
	Color color.Color
	Align Align
	Text  string
}

func (l *Label) paint(s Surface) error {
	return s.DrawText(l.Rect, l.Font, l.Color, l.Align, l.Text)
}

// Picture is a static bitmap, used by the splash screen.
type Picture struct {
	Rect  image.Rectangle
	Image image.Image
}

func (p *Picture) paint(s Surface) error {
	s.DrawImage(p.Rect, p.Image)
	return nil
}

// Field is a named mutable text element. Only the pipeline changes its text.
type Field struct {
	id          FieldID
	rect        image.Rectangle
	font        Font
	fg          color.Color
	bg          color.Color // nil: transparent
	align       Align
	placeholder string
	text        string
}

func newField(id FieldID, r image.Rectangle, f Font, fg color.Color, align Align, placeholder string) *Field {
	return &Field{
		id:          id,
		rect:        r,
		font:        f,
		fg:          fg,
		align:       align,
		placeholder: placeholder,
		text:        placeholder,
	}
}

// ID returns the registry key of the field.
func (f *Field) ID() FieldID { return f.id }

// Name returns the stable field name.
func (f *Field) Name() string { return f.id.String() }

func (f *Field) Rect() image.Rectangle { return f.rect }

// Text returns the current text of the field.
func (f *Field) Text() string { return f.text }

func (f *Field) Placeholder() string { return f.placeholder }

func (f *Field) setText(text string) { f.text = text }

func (f *Field) paint(s Surface) error {
	if f.bg != nil {
		s.FillRect(f.rect, f.bg)
	}
	return s.DrawText(f.rect, f.font, f.fg, f.align, f.text)
}
