// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/display"
	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
)

// mockFeed refreshes a collector from the mock source on every snapshot.
type mockFeed struct {
	src       *mockSource
	collector Collector
	now       func() time.Time
}

func (f *mockFeed) Snapshot() (env.Snapshot, *gps.Fix, error) {
	f.src.at(f.now()).feed(&f.collector)
	return f.collector.Snapshot()
}

// RunSimulator shows the panel in a desktop window, fed with synthetic
// readings. No broker or hardware is needed.
func RunSimulator(cfg *config.Config, openWindow WindowOpener) error {
	logger := log.New(os.Stderr, "simulator: ", log.LstdFlags)
	cfg.DisplayDriver = config.DriverWindow

	out, err := openPanel(cfg, openWindow, logger)
	if err != nil {
		return err
	}
	defer out.close()

	b, err := newBuilder(cfg, out.fonts)
	if err != nil {
		return err
	}
	d := display.New(out.surface, logger)
	feed := &mockFeed{src: newMockSource(time.Now()), now: time.Now}

	return runWithPanel(out, func(ctx context.Context) error {
		if err := startPanel(ctx, cfg, d, b); err != nil {
			return err
		}
		mirror := startMirror(cfg.WebServerPort, logger)
		every := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
		return updateLoop(ctx, d, feed, mirror, every, logger)
	})
}
