package geo

import "math"

// WGS-84 defining parameters and the constants derived from them.
const (
	// Re is the semi-major axis of the reference ellipsoid, m.
	Re = 6378137.0
	// Flattening of the reference ellipsoid.
	Flattening = 1.0 / 298.257223563
	// ESqr is the squared first eccentricity.
	ESqr = Flattening * (2.0 - Flattening)
	// GM is the gravitational constant of the earth, m^3/s^2.
	GM = 3.986004418e14
	// WIE is the earth rotation rate, rad/s.
	WIE = 7.2921151467e-5

	normalGravity = 9.7803253359    // gravity on the ellipsoid at the equator, m/s^2
	somiglianaK   = 0.00193185265241
	gravityM      = 0.00344978650684 // w*w*a*a*b/GM
)

// Params bundles the local earth parameters at a position.
type Params struct {
	RM      float64 // meridian radius of curvature, m
	RN      float64 // normal (prime vertical) radius of curvature, m
	Gravity float64 // local gravity, m/s^2
	SinLat  float64
	CosLat  float64
	WIE     float64 // earth rotation rate, rad/s
}

// Param computes the local earth parameters for a position vector whose
// first component is taken as latitude in radians and whose third component
// is taken as altitude in meters. The second component is unused. Gravity is
// the Somigliana normal gravity with a second-order altitude correction.
//
// Param never fails: non-finite components are evaluated as zero.
func Param(pos [3]float64) Params {
	lat := pos[0]
	h := pos[2]
	if !isFinite(lat) {
		lat = 0
	}
	if !isFinite(h) {
		h = 0
	}

	sl := math.Sin(lat)
	cl := math.Cos(lat)
	slSqr := sl * sl

	rm := Re * (1.0 - ESqr) / math.Pow(1.0-ESqr*slSqr, 1.5)
	rn := Re / math.Sqrt(1.0-ESqr*slSqr)

	g1 := normalGravity * (1.0 + somiglianaK*slSqr) / math.Sqrt(1.0-ESqr*slSqr)
	g := g1 * (1.0 - (2.0/Re)*(1.0+Flattening+gravityM-2.0*Flattening*slSqr)*h + 3.0*h*h/(Re*Re))

	return Params{
		RM:      rm,
		RN:      rn,
		Gravity: g,
		SinLat:  sl,
		CosLat:  cl,
		WIE:     WIE,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
