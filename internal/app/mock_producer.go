// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/gnss_tracker/internal/config"
)

// RunMockProducer publishes synthetic env, power, gas and GPS messages so
// the display can run without sensors.
func RunMockProducer() error {
	cfg := config.Get()
	logger := log.New(os.Stderr, "producer: ", log.LstdFlags)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := newMockSource(time.Now())
	ticker := time.NewTicker(time.Duration(cfg.EnvSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		var now time.Time
		select {
		case <-ctx.Done():
			return nil
		case now = <-ticker.C:
		}

		f := src.at(now)
		for _, m := range []struct {
			topic string
			v     any
		}{
			{cfg.TopicEnv, f.Sample},
			{cfg.TopicPower, f.Power},
			{cfg.TopicGas, f.Gas},
			{cfg.TopicGPS, f.Report},
		} {
			if err := publishJSON(client, m.topic, m.v); err != nil {
				logger.Printf("%v", err)
			}
		}
		logger.Printf("%s published mock frame: %.1f°C %.0fppm", now.Format(time.RFC3339), f.Sample.Temperature, f.Gas.CO2)
	}
}
