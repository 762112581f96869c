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
	outDir := flag.String("out", "plots", "directory for the rendered PNG files")
	flag.Parse()

	log.Println("starting inertial-recorder trajectory plotter")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunTrajPlot(cfg, *outDir); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
