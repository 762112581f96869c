// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/inertial_recorder/internal/app"
	"github.com/relabs-tech/inertial_recorder/internal/config"
)

func main() {
	configPath := flag.String("config", "inertial_config.txt", "path to the KEY=VALUE config file")
	bagDir := flag.String("bag", "", "recorded bag directory to analyze")
	outDir := flag.String("out", "plots", "directory for the rendered PNG files")
	points := flag.Int("points", 100, "number of cluster sizes on the deviation curve")
	flag.Parse()

	log.Println("starting inertial-recorder Allan deviation analysis")

	if *bagDir == "" {
		log.Fatalf("fatal: -bag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunAllan(cfg, *bagDir, *outDir, *points); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
