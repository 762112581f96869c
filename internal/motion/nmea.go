package motion

import (
	"fmt"
	"os"

	"github.com/relabs-tech/inertial_recorder/internal/gps"
)

const knotsToMS = 1852.0 / 3600.0

// FromNMEA builds a motion definition from a recorded NMEA log file.
func FromNMEA(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("motion: open %s: %w", path, err)
	}
	defer f.Close()

	fixes, err := gps.ReadFixes(f)
	if err != nil {
		return nil, err
	}
	return FromFixes(fixes)
}

// FromFixes reduces a sequence of GPS fixes to a motion definition. Each
// consecutive pair of valid fixes becomes one target command: course over
// ground becomes the yaw target and speed over ground the forward-velocity
// target, ramped over the measured time delta. Void fixes and non-positive
// time deltas are dropped.
func FromFixes(fixes []gps.Fix) (*Definition, error) {
	var valid []gps.Fix
	for _, f := range fixes {
		if f.Validity == "A" {
			valid = append(valid, f)
		}
	}
	if len(valid) < 2 {
		return nil, fmt.Errorf("motion: need at least 2 valid fixes, got %d", len(valid))
	}

	first := valid[0]
	def := &Definition{
		LatDeg: first.Latitude,
		LonDeg: first.Longitude,
		AltM:   0,
		Vel0:   [3]float64{first.SpeedKnots * knotsToMS, 0, 0},
		Att0:   [3]float64{first.CourseDeg, 0, 0},
	}

	for i := 1; i < len(valid); i++ {
		dt := valid[i].Stamp.Sub(valid[i-1].Stamp).Seconds()
		if dt <= 0 {
			continue
		}
		def.Commands = append(def.Commands, Command{
			Type:       TypeTarget,
			Yaw:        valid[i].CourseDeg,
			VX:         valid[i].SpeedKnots * knotsToMS,
			Duration:   dt,
			GPSVisible: true,
		})
	}

	if len(def.Commands) == 0 {
		return nil, fmt.Errorf("motion: fixes carry no usable time deltas")
	}
	return def, nil
}
