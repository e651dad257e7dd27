// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// Collector keeps the latest message of every topic the panel shows.
// MQTT callbacks write; the display ticker reads a snapshot.
type Collector struct {
	mu sync.RWMutex

	sample     env.Sample
	haveSample bool
	power      env.Power
	gas        env.GasSample
	haveGas    bool
	report     gps.Report
	haveReport bool
}

func (c *Collector) SetSample(s env.Sample) {
	c.mu.Lock()
	c.sample, c.haveSample = s, true
	c.mu.Unlock()
}

// SetPower merges p into the stored voltages; a nil voltage leaves the
// previous value in place.
func (c *Collector) SetPower(p env.Power) {
	c.mu.Lock()
	if p.Battery != nil {
		c.power.Battery = p.Battery
	}
	if p.Solar != nil {
		c.power.Solar = p.Solar
	}
	c.mu.Unlock()
}

func (c *Collector) SetGas(g env.GasSample) {
	c.mu.Lock()
	c.gas, c.haveGas = g, true
	c.mu.Unlock()
}

func (c *Collector) SetReport(r gps.Report) {
	c.mu.Lock()
	c.report, c.haveReport = r, true
	c.mu.Unlock()
}

// Snapshot returns the readings for one panel update. A GPS report that
// carries no usable position yields a nil fix.
func (c *Collector) Snapshot() (env.Snapshot, *gps.Fix, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s env.Snapshot
	if c.haveSample {
		s = s.With(env.Temperature, env.Some(c.sample.Temperature))
		s = s.With(env.Pressure, env.Some(c.sample.Pressure/env.PascalsPerAtm))
		if c.sample.Humidity != nil {
			s = s.With(env.Humidity, env.Some(*c.sample.Humidity))
		}
	}
	if c.haveGas {
		s = s.With(env.Gas, env.Some(c.gas.CO2))
	}
	if c.power.Battery != nil {
		s = s.With(env.Battery, env.Some(*c.power.Battery))
	}
	if c.power.Solar != nil {
		s = s.With(env.Solar, env.Some(*c.power.Solar))
	}

	if !c.haveReport {
		return s, nil, nil
	}
	fix, err := c.report.Fix()
	if errors.Is(err, gps.ErrNoFix) {
		return s, nil, nil
	}
	return s, fix, err
}

// Subscribe registers the collector on the four data topics.
func (c *Collector) Subscribe(client mqtt.Client, topics Topics, logger *log.Logger) error {
	handlers := []struct {
		topic string
		set   func([]byte) error
	}{
		{topics.Env, decodeInto(c.SetSample)},
		{topics.Power, decodeInto(c.SetPower)},
		{topics.Gas, decodeInto(c.SetGas)},
		{topics.GPS, decodeInto(c.SetReport)},
	}

	for _, h := range handlers {
		topic, set := h.topic, h.set
		token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := set(msg.Payload()); err != nil {
				logger.Printf("%s unmarshal error: %v", topic, err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		logger.Printf("subscribed to %s", topic)
	}
	return nil
}

func decodeInto[T any](set func(T)) func([]byte) error {
	return func(payload []byte) error {
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return err
		}
		set(v)
		return nil
	}
}
