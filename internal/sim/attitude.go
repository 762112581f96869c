package sim

import "math"

// quatFromEuler converts a ZYX Euler attitude (yaw, pitch, roll in rad) to
// a scalar-first unit quaternion representing the body-to-nav rotation.
func quatFromEuler(att [3]float64) [4]float64 {
	cy := math.Cos(att[0] / 2)
	sy := math.Sin(att[0] / 2)
	cp := math.Cos(att[1] / 2)
	sp := math.Sin(att[1] / 2)
	cr := math.Cos(att[2] / 2)
	sr := math.Sin(att[2] / 2)

	return [4]float64{
		cy*cp*cr + sy*sp*sr,
		cy*cp*sr - sy*sp*cr,
		cy*sp*cr + sy*cp*sr,
		sy*cp*cr - cy*sp*sr,
	}
}

// quatRotate rotates v by q: for a body-to-nav attitude quaternion this
// takes a body-frame vector to the nav frame.
func quatRotate(q [4]float64, v [3]float64) [3]float64 {
	w, x, y, z := q[0], q[1], q[2], q[3]

	// q * (0, v) * conj(q), expanded
	tx := 2 * (y*v[2] - z*v[1])
	ty := 2 * (z*v[0] - x*v[2])
	tz := 2 * (x*v[1] - y*v[0])

	return [3]float64{
		v[0] + w*tx + y*tz - z*ty,
		v[1] + w*ty + z*tx - x*tz,
		v[2] + w*tz + x*ty - y*tx,
	}
}

// quatConj returns the conjugate of q. For a unit quaternion this is the
// inverse rotation.
func quatConj(q [4]float64) [4]float64 {
	return [4]float64{q[0], -q[1], -q[2], -q[3]}
}

// bodyRates converts Euler angle rates to body angular rates for a ZYX
// attitude. att and rate are (yaw, pitch, roll) in rad and rad/s; the
// result is (p, q, r) in rad/s.
func bodyRates(att, rate [3]float64) [3]float64 {
	yawDot, pitchDot, rollDot := rate[0], rate[1], rate[2]
	sinPitch := math.Sin(att[1])
	cosPitch := math.Cos(att[1])
	sinRoll := math.Sin(att[2])
	cosRoll := math.Cos(att[2])

	return [3]float64{
		rollDot - yawDot*sinPitch,
		pitchDot*cosRoll + yawDot*cosPitch*sinRoll,
		-pitchDot*sinRoll + yawDot*cosPitch*cosRoll,
	}
}
