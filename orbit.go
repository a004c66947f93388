package astrocore

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

const (
	// Precise ε
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
	// Coarse ε (for interplanetary flight)
	eccentricityLgε = 1e-2                         // 0.01
	angleLgε        = (5e-1 / 360) * (2 * math.Pi) // 0.5 degrees
	distanceLgε     = 5e2                          // 500 km
	// velocity ε for circular orbit equality
	velocityε = 1e-4 // in km/s
)

// Orbit is a Cartesian orbital state: position and velocity vectors about a
// CelestialObject, with an epoch. It implements the State capability
// interface so that integrator and trajectory can operate on it without
// depending on its concrete type.
type Orbit struct {
	rVec, vVec []float64
	Origin     CelestialObject
	epoch      time.Time

	cacheHash                                                 float64
	ccha, cche, cchi, cchΩ, cchω, cchν, cchλ, cchtildeω, cchu float64
}

// Dim returns the dimension of the state vector (always 6: position+velocity).
func (o *Orbit) Dim() int { return 6 }

// AsVector returns the state as a flat 6-vector [rx,ry,rz,vx,vy,vz].
func (o *Orbit) AsVector() []float64 {
	return []float64{o.rVec[0], o.rVec[1], o.rVec[2], o.vVec[0], o.vVec[1], o.vVec[2]}
}

// SetVector overwrites the state from a flat 6-vector, at the given epoch.
func (o *Orbit) SetVector(v []float64, epoch time.Time) {
	o.rVec = []float64{v[0], v[1], v[2]}
	o.vVec = []float64{v[3], v[4], v[5]}
	o.epoch = epoch
	o.cacheHash = math.NaN()
}

// Epoch returns the epoch currently associated with this state.
func (o *Orbit) Epoch() time.Time { return o.epoch }

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	return math.Pow(o.VNorm(), 2)/2 - o.Origin.Mu/o.RNorm()
}

// H returns the orbital angular momentum vector.
func (o Orbit) H() []float64 {
	return Cross(o.rVec, o.vVec)
}

// HNorm returns the norm of orbital angular momentum.
func (o Orbit) HNorm() float64 {
	return o.RNorm() * o.VNorm() * o.CosΦfpa()
}

// CosΦfpa returns the cosine of the flight path angle.
// WARNING: do not recover the angle via math.Acos(o.CosΦfpa()); use
// math.Atan2(o.SinΦfpa(), o.CosΦfpa()) to avoid a quadrant ambiguity.
func (o *Orbit) CosΦfpa() float64 {
	_, e, _, _, _, ν, _, _, _ := o.Elements()
	if e < eccentricityε {
		return 1
	} else if floats.EqualWithinAbs(e, 1, eccentricityε) {
		return math.Cos(ν / 2)
	} else if e > 1 {
		cosh2 := math.Pow((e+math.Cos(ν))/(1+e*math.Cos(ν)), 2)
		return math.Sqrt((e*e - 1) / (e*e*cosh2 - 1))
	}
	ecosν := e * math.Cos(ν)
	return (1 + ecosν) / math.Sqrt(1+2*ecosν+math.Pow(e, 2))
}

// SinΦfpa returns the sine of the flight path angle; see CosΦfpa's warning.
func (o *Orbit) SinΦfpa() float64 {
	_, e, _, _, _, ν, _, _, _ := o.Elements()
	if e < eccentricityε {
		return 0
	} else if floats.EqualWithinAbs(e, 1, eccentricityε) {
		return math.Sin(ν / 2)
	} else if e > 1 {
		sinν, cosν := math.Sincos(ν)
		cosh2 := math.Pow((e+cosν)/(1+e*cosν), 2)
		sinh := sinν * math.Sqrt(e*e-1) / (1 + e*cosν)
		return -(e * sinh) / math.Sqrt(e*e*cosh2-1)
	}
	sinν, cosν := math.Sincos(ν)
	return (e * sinν) / math.Sqrt(1+2*e*cosν+math.Pow(e, 2))
}

// SemiParameter returns the semi-latus rectum.
func (o *Orbit) SemiParameter() float64 {
	a, e, _, _, _, _, _, _, _ := o.Elements()
	return a * (1 - e*e)
}

// Apoapsis returns the apoapsis radius.
func (o *Orbit) Apoapsis() float64 {
	a, e, _, _, _, _, _, _, _ := o.Elements()
	return a * (1 + e)
}

// Periapsis returns the periapsis radius.
func (o *Orbit) Periapsis() float64 {
	a, e, _, _, _, _, _, _, _ := o.Elements()
	return a * (1 - e)
}

// SinCosE returns the eccentric (or hyperbolic) anomaly trig functions.
func (o *Orbit) SinCosE() (sinE, cosE float64) {
	_, e, _, _, _, ν, _, _, _ := o.Elements()
	sinν, cosν := math.Sincos(ν)
	denom := 1 + e*cosν
	if e > 1 {
		sinE = math.Sqrt(e*e-1) * sinν / denom
	} else {
		sinE = math.Sqrt(1-e*e) * sinν / denom
	}
	cosE = (e + cosν) / denom
	return
}

// Period returns the orbital period. Undefined (returns 0) for hyperbolic orbits.
func (o *Orbit) Period() time.Duration {
	a, e, _, _, _, _, _, _, _ := o.Elements()
	if e >= 1 {
		return 0
	}
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(a, 3)/o.Origin.Mu)
	return time.Duration(seconds * float64(time.Second))
}

// RV returns the position and velocity vectors.
func (o *Orbit) RV() ([]float64, []float64) {
	return o.rVec, o.vVec
}

// R returns the position vector.
func (o *Orbit) R() []float64 { return o.rVec }

// RNorm returns the norm of the position vector.
func (o *Orbit) RNorm() float64 { return Norm(o.rVec) }

// V returns the velocity vector.
func (o *Orbit) V() []float64 { return o.vVec }

// VNorm returns the norm of the velocity vector.
func (o *Orbit) VNorm() float64 { return Norm(o.vVec) }

// Elements returns the nine classical orbital elements in radians,
// supporting circular, elliptical and hyperbolic orbits.
// (a, e, i, Ω, ω, ν, λ, tildeω, u)
func (o *Orbit) Elements() (a, e, i, Ω, ω, ν, λ, tildeω, u float64) {
	if o.hashValid() {
		return o.ccha, o.cche, o.cchi, o.cchΩ, o.cchω, o.cchν, o.cchλ, o.cchtildeω, o.cchu
	}
	// Algorithm from Vallado, 4th edition, page 113 (RV2COE).
	hVec := Cross(o.rVec, o.vVec)
	n := Cross([]float64{0, 0, 1}, hVec)
	v := Norm(o.vVec)
	r := Norm(o.rVec)
	ξ := (v*v)/2 - o.Origin.Mu/r
	a = -o.Origin.Mu / (2 * ξ)
	eVec := make([]float64, 3)
	for i := 0; i < 3; i++ {
		eVec[i] = ((v*v-o.Origin.Mu/r)*o.rVec[i] - Dot(o.rVec, o.vVec)*o.vVec[i]) / o.Origin.Mu
	}
	e = Norm(eVec)
	if e < eccentricityε {
		e = eccentricityε
	}
	i = math.Acos(hVec[2] / Norm(hVec))
	if i < angleε {
		i = angleε
	}
	ω = math.Acos(Dot(n, eVec) / (Norm(n) * e))
	if math.IsNaN(ω) {
		ω = 0
	}
	if eVec[2] < 0 {
		ω = 2*math.Pi - ω
	}
	Ω = math.Acos(n[0] / Norm(n))
	if math.IsNaN(Ω) {
		Ω = angleε
	}
	if n[1] < 0 {
		Ω = 2*math.Pi - Ω
	}
	cosν := Dot(eVec, o.rVec) / (e * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && floats.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = Sign(cosν)
	}
	ν = math.Acos(cosν)
	if math.IsNaN(ν) {
		ν = 0
	}
	if Dot(o.rVec, o.vVec) < 0 {
		ν = 2*math.Pi - ν
	}
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)
	λ = math.Mod(ω+Ω+ν, 2*math.Pi)
	tildeω = math.Mod(ω+Ω, 2*math.Pi)
	if e < eccentricityε {
		u = math.Acos(Dot(n, o.rVec) / (Norm(n) * r))
	} else {
		u = math.Mod(ν+ω, 2*math.Pi)
	}
	o.ccha, o.cche, o.cchi, o.cchΩ, o.cchω, o.cchν, o.cchλ, o.cchtildeω, o.cchu = a, e, i, Ω, ω, ν, λ, tildeω, u
	o.computeHash()
	return
}

// MeanAnomaly returns the mean anomaly for hyperbolic orbits only.
func (o *Orbit) MeanAnomaly() float64 {
	_, e, _, _, _, _, _, _, _ := o.Elements()
	sinH, cosH := o.SinCosE()
	H := math.Atan2(sinH, cosH)
	return e*math.Sinh(H) - H
}

func (o *Orbit) computeHash() {
	h := 0.0
	for i := 0; i < 3; i++ {
		h += o.rVec[i] + o.vVec[i]
	}
	o.cacheHash = h
}

func (o *Orbit) hashValid() bool {
	h := 0.0
	for i := 0; i < 3; i++ {
		h += o.rVec[i] + o.vVec[i]
	}
	return o.cacheHash == h
}

func (o *Orbit) String() string {
	a, e, i, Ω, ω, ν, λ, _, u := o.Elements()
	return fmt.Sprintf("r=%.1f a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f λ=%.3f u=%.3f",
		Norm(o.rVec), a, e, Rad2deg(i), Rad2deg(Ω), Rad2deg(ω), Rad2deg(ν), Rad2deg(λ), Rad2deg(u))
}

func (o *Orbit) epsilons() (float64, float64, float64) {
	if o.Origin.Equals(Sun) {
		return distanceLgε, eccentricityLgε, angleLgε
	}
	return distanceε, eccentricityε, angleε
}

// Equals reports whether two orbits are identical, free in true anomaly for
// circular/equatorial edge cases. Use StrictlyEquals to also compare ν.
func (o *Orbit) Equals(o1 *Orbit) (bool, error) {
	if !o.Origin.Equals(o1.Origin) {
		return false, errors.New("different origin")
	}
	dε, eε, aε := o.epsilons()
	a, e, i, Ω, ω, _, λ, _, u := o.Elements()
	a1, e1, i1, Ω1, ω1, _, λ1, _, u1 := o1.Elements()
	if !floats.EqualWithinAbs(a, a1, dε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(e, e1, eε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(i, i1, aε) {
		return false, errors.New("inclination invalid")
	}
	if !floats.EqualWithinAbs(Ω, Ω1, aε) {
		return false, errors.New("RAAN invalid")
	}
	if e < eccentricityε {
		if i > angleε {
			if !floats.EqualWithinAbs(u, u1, aε) {
				return false, errors.New("argument of latitude invalid")
			}
		} else if !floats.EqualWithinAbs(λ, λ1, aε) {
			return false, errors.New("true longitude invalid")
		}
	} else if !floats.EqualWithinAbs(ω, ω1, aε) {
		return false, errors.New("argument of perigee invalid")
	}
	return true, nil
}

// StrictlyEquals additionally requires equal true anomaly (or equal state
// vectors, for near-circular orbits where ν is ill-defined).
func (o *Orbit) StrictlyEquals(o1 *Orbit) (bool, error) {
	_, e, _, _, _, ν, _, _, _ := o.Elements()
	_, _, _, _, _, ν1, _, _, _ := o1.Elements()
	if floats.EqualWithinAbs(e, 0, 2*eccentricityε) {
		if floats.EqualApprox(o.rVec, o1.rVec, 1) && floats.EqualApprox(o.vVec, o1.vVec, velocityε) {
			return true, nil
		}
		return false, errors.New("vectors not equal")
	} else if e > eccentricityε && !floats.EqualWithinAbs(ν, ν1, angleε) {
		return false, errors.New("true anomaly invalid")
	}
	return o.Equals(o1)
}

// ChangeOrigin reassigns the orbit's frame origin, translating its state
// vectors by subtracting the state of the new origin relative to the old
// one, as supplied by a FrameProvider. Panics if already in that frame, mirroring the contract
// that ToXCentric/ChangeFrame is never called as a no-op.
func (o *Orbit) ChangeOrigin(b CelestialObject, dt time.Time, fp FrameProvider) error {
	if o.Origin.Name == b.Name {
		panic(fmt.Errorf("already in orbit around %s", b.Name))
	}
	rel, err := fp.ChangeFrame(o.Origin, b, dt)
	if err != nil {
		return err
	}
	relR, relV := rel.RV()
	for i := 0; i < 3; i++ {
		o.rVec[i] -= relR[i]
		o.vVec[i] -= relV[i]
	}
	o.Origin = b
	o.cacheHash = math.NaN()
	return nil
}

// NewOrbitFromOE creates an orbit from classical orbital elements.
// WARNING: angles are in degrees, not radians.
func NewOrbitFromOE(a, e, i, Ω, ω, ν float64, c CelestialObject, epoch time.Time) *Orbit {
	i = i * deg2rad
	Ω = Ω * deg2rad
	ω = ω * deg2rad
	ν = ν * deg2rad

	if e < eccentricityε {
		if i < angleε {
			Ω = 0
			ω = 0
			ν = math.Mod(ω+Ω+ν, 2*math.Pi)
		} else {
			ω = 0
			ν = math.Mod(ν+ω, 2*math.Pi)
		}
	} else if i < angleε {
		Ω = 0
		ω = math.Mod(ω+Ω, 2*math.Pi)
	}
	p := a * (1 - e*e)
	if floats.EqualWithinAbs(e, 1, eccentricityε) {
		panic("should initialize parabolic orbits with R, V")
	}
	μOp := math.Sqrt(c.Mu / p)
	sinν, cosν := math.Sincos(ν)
	rPQW := []float64{p * cosν / (1 + e*cosν), p * sinν / (1 + e*cosν), 0}
	vPQW := []float64{-μOp * sinν, μOp * (e + cosν), 0}
	rIJK := Rot313Vec(-ω, -i, -Ω, rPQW)
	vIJK := Rot313Vec(-ω, -i, -Ω, vPQW)
	o := &Orbit{rVec: rIJK, vVec: vIJK, Origin: c, epoch: epoch, cacheHash: math.NaN()}
	o.Elements()
	return o
}

// NewOrbitFromRV builds an orbit directly from position/velocity vectors.
func NewOrbitFromRV(R, V []float64, c CelestialObject, epoch time.Time) *Orbit {
	o := &Orbit{rVec: R, vVec: V, Origin: c, epoch: epoch, cacheHash: math.NaN()}
	o.Elements()
	return o
}

// Radii2ae returns the semi-major axis and eccentricity from apoapsis and
// periapsis radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
