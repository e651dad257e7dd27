// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gnss_tracker/internal/app"
	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/display"
	"github.com/relabs-tech/gnss_tracker/internal/panel/window"
)

func main() {
	configPath := flag.String("config", "", "optional configuration file")
	renderer := flag.String("renderer", "", "canvas or tinyfont (overrides the config)")
	rotation := flag.Int("rotation", -1, "panel rotation in degrees: 0, 90, 180 or 270")
	scale := flag.Int("scale", 2, "window pixel scale")
	flag.Parse()

	log.Println("starting gnss-tracker simulator (desktop window, synthetic readings)")

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *renderer != "" {
		cfg.DisplayRenderer = *renderer
	}
	if *rotation >= 0 {
		rot, err := display.ParseRotation(*rotation)
		if err != nil {
			log.Fatalf("%v", err)
		}
		cfg.DisplayRotation = rot
	}

	opener := func(w, h int, title string) app.Window {
		return window.New(w, h, *scale, title)
	}
	if err := app.RunSimulator(cfg, opener); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
