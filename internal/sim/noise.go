package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/relabs-tech/inertial_recorder/internal/errmodel"
)

const (
	degToRad          = math.Pi / 180.0
	degPerHrToRadPerS = degToRad / 3600.0
	// deg/sqrt(hr) -> deg/sqrt(s), m/s/sqrt(hr) -> m/s/sqrt(s)
	perRootHrToPerRootS = 1.0 / 60.0
)

// channelNoise corrupts one 3-axis channel:
//
//	measurement = M*truth + bias + drift + white
//
// where M carries scale and cross-coupling, drift is a first-order
// Gauss-Markov process and white is sampled per tick.
type channelNoise struct {
	m       *mat.Dense
	bias    [3]float64
	phi     [3]float64 // exp(-dt/tau) per axis
	sigmaGM [3]float64 // stationary drift sigma
	sigmaW  [3]float64 // white noise sigma per sample
	drift   [3]float64
	rng     *rand.Rand
}

// couplingMatrix builds the 3x3 misalignment matrix from per-axis scale
// factors (diagonal) and the six cross-coupling terms (off-diagonal,
// row-major).
func couplingMatrix(scale, cross []float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		scale[0], cross[0], cross[1],
		cross[2], scale[1], cross[3],
		cross[4], cross[5], scale[2],
	})
}

func newGyroNoise(em *errmodel.Model, fs float64, rng *rand.Rand) *channelNoise {
	n := &channelNoise{m: couplingMatrix(em.GyroScale, em.GyroCross), rng: rng}
	dt := 1.0 / fs
	for i := 0; i < 3; i++ {
		n.bias[i] = em.GyroBias[i] * degPerHrToRadPerS
		n.sigmaGM[i] = em.GyroBiasStab[i] * degPerHrToRadPerS
		n.phi[i] = math.Exp(-dt / em.GyroBiasCorr[i])
		n.sigmaW[i] = em.GyroARW[i] * degToRad * perRootHrToPerRootS * math.Sqrt(fs)
	}
	return n
}

func newAccelNoise(em *errmodel.Model, fs float64, rng *rand.Rand) *channelNoise {
	n := &channelNoise{m: couplingMatrix(em.AccelScale, em.AccelCross), rng: rng}
	dt := 1.0 / fs
	for i := 0; i < 3; i++ {
		n.bias[i] = em.AccelBias[i]
		n.sigmaGM[i] = em.AccelBiasStab[i]
		n.phi[i] = math.Exp(-dt / em.AccelBiasCorr[i])
		n.sigmaW[i] = em.AccelVRW[i] * perRootHrToPerRootS * math.Sqrt(fs)
	}
	return n
}

// apply corrupts one truth sample and advances the drift state.
func (n *channelNoise) apply(truth [3]float64) [3]float64 {
	var v mat.VecDense
	v.MulVec(n.m, mat.NewVecDense(3, truth[:]))

	var out [3]float64
	for i := 0; i < 3; i++ {
		n.drift[i] = n.phi[i]*n.drift[i] +
			n.sigmaGM[i]*math.Sqrt(1-n.phi[i]*n.phi[i])*n.rng.NormFloat64()
		out[i] = v.AtVec(i) + n.bias[i] + n.drift[i] + n.sigmaW[i]*n.rng.NormFloat64()
	}
	return out
}

// magNoise corrupts the magnetometer: soft iron times truth, plus hard
// iron, plus white noise. Units are uT throughout.
type magNoise struct {
	si  *mat.Dense
	hi  [3]float64
	std [3]float64
	rng *rand.Rand
}

func newMagNoise(em *errmodel.Model, rng *rand.Rand) *magNoise {
	n := &magNoise{si: mat.NewDense(3, 3, nil), rng: rng}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			n.si.Set(i, j, em.MagSI[i][j])
		}
		n.hi[i] = em.MagHI[i]
		n.std[i] = em.MagStd[i]
	}
	return n
}

func (n *magNoise) apply(truth [3]float64) [3]float64 {
	var v mat.VecDense
	v.MulVec(n.si, mat.NewVecDense(3, truth[:]))

	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = v.AtVec(i) + n.hi[i] + n.std[i]*n.rng.NormFloat64()
	}
	return out
}
