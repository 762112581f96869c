// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/inertial_recorder/internal/errmodel"
	"github.com/relabs-tech/inertial_recorder/internal/motion"
	"github.com/relabs-tech/inertial_recorder/internal/orientation"
	"github.com/relabs-tech/inertial_recorder/internal/sim"
)

// demoRateHz is the pose rate of the live-view demo feed.
const demoRateHz = 10

// demoDefinition is the motion the demo flies: bank right, hold the
// turn, roll out into a climb, hold, level off. 18 s per cycle.
func demoDefinition() *motion.Definition {
	return &motion.Definition{
		LatDeg: 48.1173,
		LonDeg: 11.5166667,
		AltM:   510,
		Vel0:   [3]float64{5, 0, 0},
		Commands: []motion.Command{
			{Type: motion.TypeTarget, Roll: 20, VX: 5, Duration: 3, GPSVisible: true},
			{Type: motion.TypeRate, Yaw: 10, Duration: 6, GPSVisible: true},
			{Type: motion.TypeTarget, Yaw: 60, Pitch: 10, VX: 5, Duration: 3, GPSVisible: true},
			{Type: motion.TypeRate, Duration: 3, GPSVisible: true},
			{Type: motion.TypeTarget, Yaw: 60, VX: 5, Duration: 3, GPSVisible: true},
		},
	}
}

// demoSource cycles through the reference attitude of a noise-free
// simulation of demoDefinition. It stands in for a replayed recording
// when the web server runs without a broker.
type demoSource struct {
	poses []orientation.Pose
	next  int
}

func newDemoSource() (*demoSource, error) {
	out, err := sim.Run(demoDefinition(), errmodel.Ideal(), sim.Options{
		FSIMU: demoRateHz,
		FSRef: demoRateHz,
		Seed:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("demo source: %w", err)
	}

	poses := make([]orientation.Pose, len(out.RefAtt))
	for i, q := range out.RefAtt {
		poses[i] = orientation.FromQuaternion(q)
	}
	return &demoSource{poses: poses}, nil
}

func (d *demoSource) Next() (orientation.Pose, error) {
	p := d.poses[d.next]
	d.next = (d.next + 1) % len(d.poses)
	return p, nil
}
