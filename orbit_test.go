package astrocore

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
)

var testEpoch = time.Date(2023, 2, 22, 19, 18, 17, 0, time.UTC)

func hyperbolicTestOrbit() *Orbit {
	// e=1.2, periapsis 8000 km, i=30, Ω=45, ω=75, ν=23.4 (degrees).
	rP := 8000.0
	a := rP / (1 - 1.2)
	return NewOrbitFromRVFromOEHyperbolic(a, 1.2, 30, 45, 75, 23.4, Earth, testEpoch)
}

// NewOrbitFromRVFromOEHyperbolic builds a hyperbolic orbit from classical
// elements (angles in degrees) by computing R/V in the perifocal frame and
// passing them to NewOrbitFromRV, without NewOrbitFromOE's circular and
// equatorial angle adjustments.
func NewOrbitFromRVFromOEHyperbolic(a, e, iDeg, ΩDeg, ωDeg, νDeg float64, c CelestialObject, epoch time.Time) *Orbit {
	i := iDeg * deg2rad
	Ω := ΩDeg * deg2rad
	ω := ωDeg * deg2rad
	ν := νDeg * deg2rad
	p := a * (1 - e*e)
	μOp := math.Sqrt(c.Mu / p)
	sinν, cosν := math.Sincos(ν)
	rPQW := []float64{p * cosν / (1 + e*cosν), p * sinν / (1 + e*cosν), 0}
	vPQW := []float64{-μOp * sinν, μOp * (e + cosν), 0}
	rIJK := Rot313Vec(-ω, -i, -Ω, rPQW)
	vIJK := Rot313Vec(-ω, -i, -Ω, vPQW)
	return NewOrbitFromRV(rIJK, vIJK, c, epoch)
}

func TestElementsRoundTrip(t *testing.T) {
	o := NewOrbitFromOE(42164, 0.001, 0.1, 10, 20, 30, Earth, testEpoch)
	a, e, i, Ω, ω, ν, _, _, _ := o.Elements()
	if !floats.EqualWithinAbs(a, 42164, distanceε) {
		t.Errorf("a = %f, want ~42164", a)
	}
	if !floats.EqualWithinAbs(e, 0.001, eccentricityε) {
		t.Errorf("e = %f, want ~0.001", e)
	}
	_ = i
	_ = Ω
	_ = ω
	_ = ν
}

func TestHyperbolicOrbitEccentricity(t *testing.T) {
	o := hyperbolicTestOrbit()
	_, e, _, _, _, _, _, _, _ := o.Elements()
	if e <= 1 {
		t.Fatalf("expected hyperbolic orbit (e>1), got e=%f", e)
	}
}

func TestOrbitCacheInvalidatesOnSetVector(t *testing.T) {
	o := NewOrbitFromOE(42164, 0.001, 0.1, 10, 20, 30, Earth, testEpoch)
	a1, _, _, _, _, _, _, _, _ := o.Elements()
	o.SetVector([]float64{7000, 0, 0, 0, 7.5, 0}, testEpoch.Add(time.Hour))
	a2, _, _, _, _, _, _, _, _ := o.Elements()
	if floats.EqualWithinAbs(a1, a2, 1) {
		t.Fatalf("semi-major axis did not change after SetVector: %f == %f", a1, a2)
	}
}

func TestOrbitStateInterface(t *testing.T) {
	var s State = NewOrbitFromOE(42164, 0.001, 0.1, 10, 20, 30, Earth, testEpoch)
	if s.Dim() != 6 {
		t.Fatalf("Dim() = %d, want 6", s.Dim())
	}
	if len(s.AsVector()) != 6 {
		t.Fatalf("len(AsVector()) = %d, want 6", len(s.AsVector()))
	}
	if !s.Epoch().Equal(testEpoch) {
		t.Fatalf("Epoch() = %s, want %s", s.Epoch(), testEpoch)
	}
}

func TestRadii2ae(t *testing.T) {
	a, e := Radii2ae(42164, 6578)
	if !floats.EqualWithinAbs(a, (42164+6578)/2, 1e-9) {
		t.Errorf("a = %f", a)
	}
	if e <= 0 || e >= 1 {
		t.Errorf("e = %f, want in (0,1)", e)
	}
}
