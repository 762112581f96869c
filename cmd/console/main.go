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
	bagDir := flag.String("bag", "", "dump this recorded bag instead of subscribing to MQTT")
	flag.Parse()

	log.Println("starting inertial-recorder console")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(cfg, *bagDir); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
