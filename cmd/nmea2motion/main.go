package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/inertial_recorder/internal/app"
)

func main() {
	in := flag.String("in", "", "NMEA log file to convert")
	out := flag.String("out", "motion.csv", "motion definition CSV to write")
	flag.Parse()

	log.Println("starting inertial-recorder nmea2motion converter")

	if *in == "" {
		log.Fatalf("fatal: -in is required")
	}

	if err := app.RunConvert(*in, *out); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
