package orientation

import (
	"math"
)

// Pose is the canonical representation of orientation for the app.
// Angles are in degrees.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time.
// Implementations: demo source, replay source from a recorded bag, etc.
type Source interface {
	Next() (Pose, error)
}

// FromQuaternion converts a scalar-first unit quaternion (body to
// navigation frame) into roll/pitch/yaw degrees, yaw-pitch-roll order.
func FromQuaternion(q [4]float64) Pose {
	w, x, y, z := q[0], q[1], q[2], q[3]

	// Clamp the pitch argument so rounding noise near +/-90 degrees
	// cannot push asin out of its domain.
	sinPitch := 2 * (w*y - z*x)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}

	rollRad := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitchRad := math.Asin(sinPitch)
	yawRad := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))

	return Pose{
		Roll:  rollRad * 180.0 / math.Pi,
		Pitch: pitchRad * 180.0 / math.Pi,
		Yaw:   yawRad * 180.0 / math.Pi,
	}
}

// ToQuaternion converts a pose into the scalar-first unit quaternion
// that FromQuaternion inverts.
func ToQuaternion(p Pose) [4]float64 {
	halfRoll := p.Roll * math.Pi / 360.0
	halfPitch := p.Pitch * math.Pi / 360.0
	halfYaw := p.Yaw * math.Pi / 360.0

	cr, sr := math.Cos(halfRoll), math.Sin(halfRoll)
	cp, sp := math.Cos(halfPitch), math.Sin(halfPitch)
	cy, sy := math.Cos(halfYaw), math.Sin(halfYaw)

	return [4]float64{
		cy*cp*cr + sy*sp*sr,
		cy*cp*sr - sy*sp*cr,
		cy*sp*cr + sy*cp*sr,
		sy*cp*cr - cy*sp*sr,
	}
}
