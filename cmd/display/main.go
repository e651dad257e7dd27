// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gnss_tracker/internal/app"
	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/panel/window"
)

func main() {
	configPath := flag.String("config", "gnss_config.txt", "configuration file")
	scale := flag.Int("scale", 2, "window pixel scale for DISPLAY_DRIVER=window")
	flag.Parse()

	log.Println("starting gnss-tracker display (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opener := func(w, h int, title string) app.Window {
		return window.New(w, h, *scale, title)
	}
	if err := app.RunDisplay(opener); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
