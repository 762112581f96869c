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
	bagDir := flag.String("bag", "", "recorded bag directory to replay")
	realtime := flag.Bool("realtime", true, "reproduce original inter-message timing")
	flag.Parse()

	log.Println("starting inertial-recorder playback (MQTT publisher)")

	if *bagDir == "" {
		log.Fatalf("fatal: -bag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunPlayback(cfg, *bagDir, *realtime); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
