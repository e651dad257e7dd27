// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// ErrChannel is returned for an ADC channel outside 0-3.
var ErrChannel = errors.New("sensors: ADC channel must be 0-3")

// Channel is one voltage tap on the ADC. Index -1 disables it. Divider is
// the ratio of the resistor divider in front of the pin (input/pin).
type Channel struct {
	Index   int
	Divider float64
}

// PowerConfig selects the ADS1115 channels for the battery and solar taps.
type PowerConfig struct {
	Addr    uint16
	Battery Channel
	Solar   Channel
}

// PowerMonitor reads battery and solar voltage through an ADS1115.
type PowerMonitor struct {
	dev     *ads1x15.Dev
	battery *tap
	solar   *tap
}

type tap struct {
	pin     analog.PinADC
	divider float64
}

// NewPowerMonitor opens the ADC and binds the configured channels.
func NewPowerMonitor(bus i2c.Bus, cfg PowerConfig) (*PowerMonitor, error) {
	opts := ads1x15.DefaultOpts
	if cfg.Addr != 0 {
		opts.I2cAddress = cfg.Addr
	}
	dev, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ads1115 init at 0x%02X: %w", opts.I2cAddress, err)
	}

	m := &PowerMonitor{dev: dev}
	if m.battery, err = openTap(dev, cfg.Battery); err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}
	if m.solar, err = openTap(dev, cfg.Solar); err != nil {
		m.Halt()
		return nil, fmt.Errorf("solar: %w", err)
	}
	return m, nil
}

func openTap(dev *ads1x15.Dev, c Channel) (*tap, error) {
	if c.Index < 0 {
		return nil, nil
	}
	ch, err := adcChannel(c.Index)
	if err != nil {
		return nil, err
	}
	pin, err := dev.PinForChannel(ch, 5*physic.Volt, 1*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, err
	}
	return &tap{pin: pin, divider: c.Divider}, nil
}

func adcChannel(i int) (ads1x15.Channel, error) {
	switch i {
	case 0:
		return ads1x15.Channel0, nil
	case 1:
		return ads1x15.Channel1, nil
	case 2:
		return ads1x15.Channel2, nil
	case 3:
		return ads1x15.Channel3, nil
	}
	return 0, fmt.Errorf("%w, got %d", ErrChannel, i)
}

// Read samples both taps. A failing tap yields a nil voltage; its error is
// returned alongside whatever could be read.
func (m *PowerMonitor) Read() (battery, solar *float64, err error) {
	battery, berr := m.battery.read()
	solar, serr := m.solar.read()
	return battery, solar, errors.Join(wrap("battery", berr), wrap("solar", serr))
}

func (t *tap) read() (*float64, error) {
	if t == nil {
		return nil, nil
	}
	s, err := t.pin.Read()
	if err != nil {
		return nil, err
	}
	v := volts(s, t.divider)
	return &v, nil
}

// volts scales a pin sample back to the voltage at the divider input.
func volts(s analog.Sample, divider float64) float64 {
	if divider <= 0 {
		divider = 1
	}
	return float64(s.V) / float64(physic.Volt) * divider
}

// Halt releases the ADC pins.
func (m *PowerMonitor) Halt() error {
	var errs []error
	for _, t := range []*tap{m.battery, m.solar} {
		if t != nil {
			errs = append(errs, t.pin.Halt())
		}
	}
	return errors.Join(errs...)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
