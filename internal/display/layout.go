// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/geo"
)

var (
	ErrLayoutOverflow = errors.New("display: layout does not fit the surface")
	ErrUnknownMeasure = errors.New("display: unknown measurement")
	ErrMissingFont    = errors.New("display: font not set")
)

const (
	// ClockLayout renders the header clock, e.g. "09:28 AM | 07/02/2024".
	ClockLayout      = "03:04 PM | 01/02/2006"
	ClockPlaceholder = "--:-- -- | --/--/----"

	counterPlaceholder = "0000"
)

// Fonts are the two faces used by the panel.
type Fonts struct {
	Large Font
	Small Font
}

// Palette holds the panel colors.
type Palette struct {
	Background color.Color
	Foreground color.Color
	Accent     color.Color // header and footer bars
	AccentText color.Color
}

// DefaultPalette is black on white with red bars.
var DefaultPalette = Palette{
	Background: color.White,
	Foreground: color.Black,
	Accent:     color.RGBA{R: 0xff, A: 0xff},
	AccentText: color.White,
}

// Builder constructs the static panel layout once.
type Builder struct {
	Fonts    Fonts
	Palette  Palette
	Measures []Measure
	Angle    geo.Format

	// Title is the splash screen caption.
	Title string

	MarginX int
	OffsetY int
}

// NewBuilder returns a builder with the stock measures for qs and default geometry.
func NewBuilder(fonts Fonts, qs ...env.Quantity) (*Builder, error) {
	ms, err := DefaultMeasures(qs...)
	if err != nil {
		return nil, err
	}
	return &Builder{
		Fonts:    fonts,
		Palette:  DefaultPalette,
		Measures: ms,
		Angle:    geo.DefaultFormat,
		Title:    "GNSS TRACKER",
		MarginX:  8,
		OffsetY:  6,
	}, nil
}

func (b *Builder) checkFonts() error {
	if b.Fonts.Large == nil || b.Fonts.Small == nil {
		return ErrMissingFont
	}
	if b.Fonts.Large.Height() <= 0 || b.Fonts.Small.Height() <= 0 {
		return fmt.Errorf("%w: zero height", ErrMissingFont)
	}
	return nil
}

// Build lays out the panel for s. Either the whole screen is returned or an
// error; a failed build leaves nothing registered.
func (b *Builder) Build(s Surface) (*Screen, error) {
	if err := b.checkFonts(); err != nil {
		return nil, err
	}

	w, h := s.Size()
	large, small := b.Fonts.Large, b.Fonts.Small
	pitch := large.Height() + 3
	smallPitch := small.Height() + 3
	margin := b.MarginX
	pal := b.Palette

	sc := &Screen{angle: b.Angle}
	sc.add(&Box{Rect: image.Rect(0, 0, w, h), Color: pal.Background, Filled: true})

	// header: clock and battery glyph
	y := b.OffsetY
	sc.add(&Box{Rect: image.Rect(0, y, w, y+pitch), Color: pal.Accent, Filled: true})
	glyphX := w - margin - 15
	sc.addField(newField(FieldClock, image.Rect(margin, y+2, glyphX-4, y+2+large.Height()),
		large, pal.AccentText, AlignLeft, ClockPlaceholder))
	b.batteryGlyph(sc, glyphX, y, pitch)
	if err := fits(large, ClockPlaceholder, margin, glyphX-4); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	y += pitch

	// one caption + value row per measure
	seen := map[env.Quantity]bool{}
	for _, m := range b.Measures {
		id, ok := measureFields[m.Quantity]
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownMeasure, m.Quantity)
		}
		if seen[m.Quantity] {
			return nil, fmt.Errorf("duplicate measurement %v", m.Quantity)
		}
		seen[m.Quantity] = true

		sc.add(&Label{Rect: image.Rect(margin, y, w, y+large.Height()),
			Font: large, Color: pal.Foreground, Align: AlignLeft, Text: m.Caption})
		sc.addField(newField(id, image.Rect(0, y, w-margin, y+large.Height()),
			large, pal.Foreground, AlignRight, m.PlaceholderText()))
		if err := fits(large, m.Caption+" "+m.PlaceholderText(), margin, w-margin); err != nil {
			return nil, fmt.Errorf("row %v: %w", m.Quantity, err)
		}
		y += pitch
	}
	sc.measures = append([]Measure(nil), b.Measures...)

	sc.add(&Box{Rect: image.Rect(margin, y, w-margin, y+1), Color: pal.Foreground, Filled: true})
	y += 3

	// footer: position and frame counter
	footerH := 2*pitch + smallPitch + 2
	if y+footerH > h {
		return nil, fmt.Errorf("%w: needs %dpx, surface is %dpx high", ErrLayoutOverflow, y+footerH, h)
	}
	sc.add(&Box{Rect: image.Rect(0, y, w, y+footerH), Color: pal.Accent, Filled: true})
	y += 2

	zero := b.Angle.ZeroFix()
	for _, row := range []struct {
		id      FieldID
		caption string
	}{
		{FieldLatitude, "LATITUDE:"},
		{FieldLongitude, "LONGITUDE:"},
	} {
		sc.add(&Label{Rect: image.Rect(margin, y, w, y+large.Height()),
			Font: large, Color: pal.AccentText, Align: AlignLeft, Text: row.caption})
		sc.addField(newField(row.id, image.Rect(0, y, w-margin, y+large.Height()),
			large, pal.AccentText, AlignRight, zero))
		if err := fits(large, row.caption+" "+zero, margin, w-margin); err != nil {
			return nil, fmt.Errorf("%v: %w", row.id, err)
		}
		y += pitch
	}

	sc.add(&Label{Rect: image.Rect(margin, y, w, y+small.Height()),
		Font: small, Color: pal.AccentText, Align: AlignLeft, Text: "FRAME:"})
	sc.addField(newField(FieldCounter, image.Rect(0, y, w-margin, y+small.Height()),
		small, pal.AccentText, AlignRight, counterPlaceholder))

	return sc, nil
}

// batteryGlyph draws an outline, tip and fill at the right end of the header.
func (b *Builder) batteryGlyph(sc *Screen, x, y, pitch int) {
	gh := pitch - 4
	if gh < 5 {
		gh = 5
	}
	c := b.Palette.AccentText
	sc.add(&Box{Rect: image.Rect(x, y+2, x+14, y+2+gh), Color: c})
	sc.add(&Box{Rect: image.Rect(x+14, y+4, x+15, y+gh), Color: c, Filled: true})
	sc.add(&Box{Rect: image.Rect(x+2, y+4, x+12, y+gh), Color: c, Filled: true})
}

func fits(f Font, text string, x0, x1 int) error {
	if need := f.Width(text); need > x1-x0 {
		return fmt.Errorf("%w: %q needs %dpx, %dpx available", ErrLayoutOverflow, text, need, x1-x0)
	}
	return nil
}

// ResourceLoader supplies decoded bitmaps by logical resource name.
type ResourceLoader interface {
	Load(name string) (image.Image, error)
}

// BuildSplash lays out a splash screen: the named bitmap centered above the title.
func (b *Builder) BuildSplash(s Surface, loader ResourceLoader, name string) (*Screen, error) {
	if err := b.checkFonts(); err != nil {
		return nil, err
	}
	if loader == nil {
		return nil, fmt.Errorf("splash %q: no resource loader", name)
	}

	img, err := loader.Load(name)
	if err != nil {
		return nil, fmt.Errorf("splash %q: %w", name, err)
	}

	w, h := s.Size()
	large := b.Fonts.Large
	ib := img.Bounds()
	textH := large.Height() + 4
	if ib.Dx() > w || ib.Dy()+textH > h {
		return nil, fmt.Errorf("%w: splash %q is %dx%d, surface is %dx%d",
			ErrLayoutOverflow, name, ib.Dx(), ib.Dy(), w, h)
	}

	sc := &Screen{angle: b.Angle}
	sc.add(&Box{Rect: image.Rect(0, 0, w, h), Color: b.Palette.Background, Filled: true})

	top := (h - ib.Dy() - textH) / 2
	left := (w - ib.Dx()) / 2
	sc.add(&Picture{Rect: image.Rect(left, top, left+ib.Dx(), top+ib.Dy()), Image: img})
	sc.add(&Label{
		Rect:  image.Rect(0, top+ib.Dy()+4, w, top+ib.Dy()+textH),
		Font:  large,
		Color: b.Palette.Foreground,
		Align: Align{H: Center, V: Top},
		Text:  b.Title,
	})
	return sc, nil
}
