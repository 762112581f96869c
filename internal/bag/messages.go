// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bag

// Frame names carried in recorded messages. Inertial samples are
// stamped with the ENU frame; reference poses use the inertial frame,
// positions relative to the origin of the run.
const (
	FrameENU      = "ENU"
	FrameInertial = "inertial"
)

// IMUMessage is one inertial sample with the reference attitude attached.
type IMUMessage struct {
	StampNs            int64      `json:"stamp_ns"`
	Frame              string     `json:"frame"`
	Orientation        [4]float64 `json:"orientation"`         // scalar first
	AngularVelocity    [3]float64 `json:"angular_velocity"`    // rad/s
	LinearAcceleration [3]float64 `json:"linear_acceleration"` // m/s^2
}

// PoseMessage is one reference pose sample.
type PoseMessage struct {
	StampNs     int64      `json:"stamp_ns"`
	Frame       string     `json:"frame"`
	Child       string     `json:"child_frame"`
	Position    [3]float64 `json:"position"` // m
	Orientation [4]float64 `json:"orientation"`
}
