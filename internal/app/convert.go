package app

import (
	"log"

	"github.com/relabs-tech/inertial_recorder/internal/motion"
)

// RunConvert builds a motion definition from a recorded NMEA log and
// writes it as a motion CSV.
func RunConvert(in, out string) error {
	def, err := motion.FromNMEA(in)
	if err != nil {
		return err
	}
	log.Printf("converted %s: %d commands, %.1fs total", in, len(def.Commands), def.Duration())

	if err := def.Save(out); err != nil {
		return err
	}
	log.Printf("wrote motion definition to %s", out)
	return nil
}
