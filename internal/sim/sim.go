package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/relabs-tech/inertial_recorder/internal/errmodel"
	"github.com/relabs-tech/inertial_recorder/internal/geo"
	"github.com/relabs-tech/inertial_recorder/internal/motion"
)

// Options configure a simulation run.
type Options struct {
	FSIMU float64 // inertial channel sample rate, Hz
	FSRef float64 // reference channel sample rate, Hz
	Seed  int64   // noise seed; 0 seeds from the clock
}

// Output is a synthesized dataset. Inertial channels are sampled at FSIMU,
// reference channels at FSRef. Reference positions are meters in a local
// level frame (north, east, down) anchored at the initial position;
// attitude quaternions are scalar-first body-to-nav rotations.
type Output struct {
	Gyro   [][3]float64 // rad/s
	Accel  [][3]float64 // specific force, m/s^2
	Mag    [][3]float64 // uT
	RefPos [][3]float64 // m
	RefAtt [][4]float64
}

// magFieldNED is the nav-frame magnetic field used for magnetometer
// synthesis, uT. Northern mid-latitude values.
var magFieldNED = [3]float64{22.0, 0.0, 43.0}

// segment is one motion command flattened to absolute time, carrying the
// attitude and body velocity accumulated at its start.
type segment struct {
	t0, t1 float64
	att0   [3]float64 // yaw, pitch, roll at t0, rad
	rate   [3]float64 // rad/s
	vel0   [3]float64 // body velocity at t0, m/s
	acc    [3]float64 // body acceleration, m/s^2
}

func compile(def *motion.Definition) []segment {
	att := [3]float64{def.Att0[0] * degToRad, def.Att0[1] * degToRad, def.Att0[2] * degToRad}
	vel := def.Vel0

	segs := make([]segment, 0, len(def.Commands))
	t := 0.0
	for _, c := range def.Commands {
		s := segment{t0: t, t1: t + c.Duration, att0: att, vel0: vel}
		switch c.Type {
		case motion.TypeRate:
			s.rate = [3]float64{c.Yaw * degToRad, c.Pitch * degToRad, c.Roll * degToRad}
			s.acc = [3]float64{c.VX, c.VY, c.VZ}
		case motion.TypeTarget:
			target := [3]float64{c.Yaw * degToRad, c.Pitch * degToRad, c.Roll * degToRad}
			for i := 0; i < 3; i++ {
				s.rate[i] = (target[i] - att[i]) / c.Duration
			}
			s.acc = [3]float64{
				(c.VX - vel[0]) / c.Duration,
				(c.VY - vel[1]) / c.Duration,
				(c.VZ - vel[2]) / c.Duration,
			}
		}
		for i := 0; i < 3; i++ {
			att[i] = s.att0[i] + s.rate[i]*c.Duration
			vel[i] = s.vel0[i] + s.acc[i]*c.Duration
		}
		segs = append(segs, s)
		t = s.t1
	}
	return segs
}

// at evaluates attitude (rad), attitude rate (rad/s) and body velocity
// (m/s) at time t. Beyond the last segment the final state holds with zero
// rates.
func at(segs []segment, t float64) (att, rate, vel [3]float64) {
	last := segs[len(segs)-1]
	if t >= last.t1 {
		d := last.t1 - last.t0
		for i := 0; i < 3; i++ {
			att[i] = last.att0[i] + last.rate[i]*d
			vel[i] = last.vel0[i] + last.acc[i]*d
		}
		return att, [3]float64{}, vel
	}

	for _, s := range segs {
		if t < s.t1 {
			tau := t - s.t0
			for i := 0; i < 3; i++ {
				att[i] = s.att0[i] + s.rate[i]*tau
				vel[i] = s.vel0[i] + s.acc[i]*tau
			}
			return att, s.rate, vel
		}
	}
	return att, rate, vel // unreachable
}

// Run synthesizes a dataset for the given motion definition and error
// model. The truth trajectory is evaluated at every inertial tick, then
// each channel is corrupted independently. Reference channels carry the
// uncorrupted truth sampled at FSRef.
func Run(def *motion.Definition, em *errmodel.Model, opt Options) (*Output, error) {
	if def == nil {
		return nil, fmt.Errorf("sim: nil motion definition")
	}
	if em == nil {
		return nil, fmt.Errorf("sim: nil error model")
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("sim: invalid motion definition: %w", err)
	}
	if err := em.Validate(); err != nil {
		return nil, fmt.Errorf("sim: invalid error model: %w", err)
	}
	if !(opt.FSIMU > 0) || !(opt.FSRef > 0) {
		return nil, fmt.Errorf("sim: sample rates must be positive, got imu %v, ref %v", opt.FSIMU, opt.FSRef)
	}

	duration := def.Duration()
	nIMU := int(math.Round(duration * opt.FSIMU))
	nRef := int(math.Round(duration * opt.FSRef))
	if nIMU < 1 || nRef < 1 {
		return nil, fmt.Errorf("sim: motion of %gs yields no samples at %g/%g Hz", duration, opt.FSIMU, opt.FSRef)
	}

	seed := opt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	segs := compile(def)
	dt := 1.0 / opt.FSIMU

	g0 := geo.Param([3]float64{def.LatDeg * degToRad, def.LonDeg * degToRad, def.AltM}).Gravity
	gravN := [3]float64{0, 0, g0} // NED, down positive

	// truth pass
	quats := make([][4]float64, nIMU)
	velN := make([][3]float64, nIMU)
	pos := make([][3]float64, nIMU)
	gyroTruth := make([][3]float64, nIMU)

	for i := 0; i < nIMU; i++ {
		att, rate, vel := at(segs, float64(i)*dt)
		q := quatFromEuler(att)
		quats[i] = q
		gyroTruth[i] = bodyRates(att, rate)
		velN[i] = quatRotate(q, vel)
		if i > 0 {
			for k := 0; k < 3; k++ {
				pos[i][k] = pos[i-1][k] + 0.5*(velN[i][k]+velN[i-1][k])*dt
			}
		}
	}

	// specific force: f_b = C_bn * (a_n - g_n), a_n by differentiation
	accelTruth := make([][3]float64, nIMU)
	for i := 0; i < nIMU; i++ {
		var accN [3]float64
		switch {
		case nIMU == 1:
			// single sample carries no acceleration information
		case i == 0:
			for k := 0; k < 3; k++ {
				accN[k] = (velN[1][k] - velN[0][k]) / dt
			}
		default:
			for k := 0; k < 3; k++ {
				accN[k] = (velN[i][k] - velN[i-1][k]) / dt
			}
		}
		f := [3]float64{accN[0] - gravN[0], accN[1] - gravN[1], accN[2] - gravN[2]}
		accelTruth[i] = quatRotate(quatConj(quats[i]), f)
	}

	// corruption pass
	out := &Output{
		Gyro:  make([][3]float64, nIMU),
		Accel: make([][3]float64, nIMU),
		Mag:   make([][3]float64, nIMU),
	}
	gyro := newGyroNoise(em, opt.FSIMU, rng)
	accel := newAccelNoise(em, opt.FSIMU, rng)
	mag := newMagNoise(em, rng)
	for i := 0; i < nIMU; i++ {
		out.Gyro[i] = gyro.apply(gyroTruth[i])
		out.Accel[i] = accel.apply(accelTruth[i])
		out.Mag[i] = mag.apply(quatRotate(quatConj(quats[i]), magFieldNED))
	}

	// reference channels sample the truth
	out.RefPos = make([][3]float64, nRef)
	out.RefAtt = make([][4]float64, nRef)
	for j := 0; j < nRef; j++ {
		i := int(math.Round(float64(j) / opt.FSRef * opt.FSIMU))
		if i > nIMU-1 {
			i = nIMU - 1
		}
		out.RefPos[j] = pos[i]
		out.RefAtt[j] = quats[i]
	}

	return out, nil
}
