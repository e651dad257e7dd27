// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package panel

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log"

	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// OLED flushes frames to an SSD1306 monochrome panel on the I2C bus.
// Frames larger than the panel are scaled down first.
type OLED struct {
	bus io.Closer
	dev *ssd1306.Dev
	buf *image1bit.VerticalLSB
}

// OpenOLED initializes periph, opens the default I2C bus and the panel at
// its fixed 0x3C address.
func OpenOLED(w, h int) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}
	o, err := NewOLED(bus, w, h)
	if err != nil {
		bus.Close()
		return nil, err
	}
	o.bus = bus
	return o, nil
}

// NewOLED attaches to a panel on an already open bus.
func NewOLED(bus i2c.Bus, w, h int) (*OLED, error) {
	opts := ssd1306.DefaultOpts
	opts.W, opts.H = w, h
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ssd1306: %w", err)
	}
	log.Printf("display: ssd1306 %dx%d initialized", w, h)
	return &OLED{dev: dev, buf: image1bit.NewVerticalLSB(dev.Bounds())}, nil
}

// Flush converts the frame to one bit per pixel and writes it to the panel.
func (o *OLED) Flush(frame image.Image) error {
	dst := o.buf.Bounds()
	if frame.Bounds().Size() == dst.Size() {
		draw.Draw(o.buf, dst, frame, frame.Bounds().Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(o.buf, dst, frame, frame.Bounds(), draw.Src, nil)
	}
	return o.dev.Draw(o.dev.Bounds(), o.buf, image.Point{})
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	err := o.dev.Halt()
	if o.bus != nil {
		if cerr := o.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
