// Package frame supplies astrocore.FrameProvider implementations backed by
// analytic planetary series expansions, grounded on the teacher's
// config.go::HelioState Meeus branch.
package frame

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"

	"github.com/voyagerops/astrocore"
)

// deg2rad matches astrocore's own conversion constant; kept local so this
// package has no dependency on astrocore's unexported helpers.
const deg2rad = math.Pi / 180

// Meeus is a FrameProvider backed by the low-precision VSOP-derived series
// the teacher's config.go used for Earth's heliocentric orbital elements.
// It only supports Earth-Sun transforms, matching the teacher's own
// limitation ("Meeus only supports Earth ephemerides").
type Meeus struct{}

// ChangeFrame returns the state of `to` relative to `from` at dt: Earth's
// heliocentric orbit for Sun->Earth, and its negation (the Sun's geocentric
// state) for Earth->Sun. Only the Sun<->Earth pair is supported; anything
// else fails with astrocore.ErrOutOfBounds since no other body's series is
// wired.
func (Meeus) ChangeFrame(from, to astrocore.CelestialObject, dt time.Time) (*astrocore.Orbit, error) {
	if !((from.Equals(astrocore.Sun) && to.Equals(astrocore.Earth)) ||
		(from.Equals(astrocore.Earth) && to.Equals(astrocore.Sun))) {
		return nil, astrocore.NewErrorf(astrocore.ErrOutOfBounds, "meeus frame provider only supports Sun<->Earth, got %s->%s", from.Name, to.Name)
	}
	earth := earthHeliocentric(dt)
	if from.Equals(astrocore.Sun) {
		return earth, nil
	}
	r, v := earth.RV()
	return astrocore.NewOrbitFromRV([]float64{-r[0], -r[1], -r[2]}, []float64{-v[0], -v[1], -v[2]}, astrocore.Earth, dt), nil
}

// DCM is not supported by the series-expansion provider; frame rotations
// for this toolkit are all evaluated through ChangeFrame instead.
func (Meeus) DCM(from, to string, dt time.Time) ([][3]float64, error) {
	return nil, astrocore.NewError(astrocore.ErrOutOfBounds, "meeus frame provider does not implement DCM; use ChangeFrame")
}

// earthHeliocentric evaluates Earth's heliocentric orbital elements at dt
// via the truncated VSOP87 series the teacher embedded directly (coeffs
// for L, a, e, i, Omega, Pi), then converts to a Cartesian Orbit about the
// Sun using the existing COE constructor.
func earthHeliocentric(dt time.Time) *astrocore.Orbit {
	t := (julian.TimeToJD(dt.UTC()) - 2451545.0) / 36525
	tVec := [4]float64{1, t, t * t, t * t * t}

	L := [4]float64{100.466449, 35999.3728519, -0.00000568, 0.0}
	a := [4]float64{1.000001018, 0.0, 0.0, 0.0}
	eCoef := [4]float64{0.01670862, -0.000042037, -0.0000001236, 0.00000000004}
	i := [4]float64{0.0, 0.0130546, -0.00000931, -0.000000034}
	W := [4]float64{174.873174, -0.2410908, 0.00004067, -0.000001327}
	P := [4]float64{102.937348, 0.3225557, 0.00015026, 0.000000478}

	valL := dot4(L, tVec) * deg2rad
	valSMA := dot4(a, tVec) * astrocore.AU
	e := dot4(eCoef, tVec)
	valInc := dot4(i, tVec) * deg2rad
	valW := dot4(W, tVec) * deg2rad
	valP := dot4(P, tVec) * deg2rad

	w := valP - valW
	M := valL - valP
	cCen := (2*e-math.Pow(e, 3)/4+5./96*math.Pow(e, 5))*math.Sin(M) +
		(5./4*math.Pow(e, 2)-11./24*math.Pow(e, 4))*math.Sin(2*M) +
		(13./12*math.Pow(e, 3)-43./64*math.Pow(e, 5))*math.Sin(3*M) +
		103./96*math.Pow(e, 4)*math.Sin(4*M) +
		1097./960*math.Pow(e, 5)*math.Sin(5*M)
	nu := M + cCen

	return astrocore.NewOrbitFromOE(valSMA, e, valInc, valW, w, nu, astrocore.Sun, dt)
}

func dot4(a, b [4]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}
