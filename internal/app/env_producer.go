// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/sensors"
)

// RunEnvProducer samples the BME280/BMP280 and the power ADC and publishes
// env.Sample on TOPIC_ENV and env.Power on TOPIC_POWER.
func RunEnvProducer() error {
	cfg := config.Get()
	logger := log.New(os.Stderr, "env: ", log.LstdFlags)

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	sensor, err := sensors.NewEnvSensor(bus, cfg.EnvI2CAddr)
	if err != nil {
		return err
	}
	defer sensor.Halt()
	logger.Printf("%s found at 0x%02X", sensor.Name(), cfg.EnvI2CAddr)

	// the panel works without voltages, so a missing ADC is not fatal
	power, err := sensors.NewPowerMonitor(bus, sensors.PowerConfig{
		Addr:    cfg.ADCI2CAddr,
		Battery: sensors.Channel{Index: cfg.ADCBatteryChannel, Divider: cfg.ADCBatteryDivider},
		Solar:   sensors.Channel{Index: cfg.ADCSolarChannel, Divider: cfg.ADCSolarDivider},
	})
	if err != nil {
		logger.Printf("power monitor unavailable: %v", err)
		power = nil
	} else {
		defer power.Halt()
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDEnv, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(cfg.EnvSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Println("shutting down")
			return nil
		case <-ticker.C:
		}

		if s, err := sensor.Read(); err != nil {
			logger.Printf("read error: %v", err)
		} else if err := publishJSON(client, cfg.TopicEnv, s); err != nil {
			logger.Printf("%v", err)
		}

		if power == nil {
			continue
		}
		battery, solar, err := power.Read()
		if err != nil {
			logger.Printf("power read error: %v", err)
		}
		if battery == nil && solar == nil {
			continue
		}
		if err := publishJSON(client, cfg.TopicPower, env.Power{Battery: battery, Solar: solar}); err != nil {
			logger.Printf("%v", err)
		}
	}
}
