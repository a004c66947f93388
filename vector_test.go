package astrocore

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestCrossOrthogonal(t *testing.T) {
	x := []float64{1, 0, 0}
	y := []float64{0, 1, 0}
	z := Cross(x, y)
	if !floats.EqualApprox(z, []float64{0, 0, 1}, 1e-12) {
		t.Fatalf("x cross y = %v, want [0 0 1]", z)
	}
}

func TestUnitOfZeroVectorIsZero(t *testing.T) {
	u := Unit([]float64{0, 0, 0})
	if Norm(u) != 0 {
		t.Fatalf("Unit(0) = %v, want zero vector", u)
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	cart := []float64{1, 2, 3}
	sph := Cartesian2Spherical(cart)
	back := Spherical2Cartesian(sph)
	if !floats.EqualApprox(cart, back, 1e-9) {
		t.Fatalf("round trip mismatch: %v != %v", cart, back)
	}
}

func TestR3RotatesAboutZ(t *testing.T) {
	v := []float64{1, 0, 0}
	rotated := MxV33(R3(math.Pi/2), v)
	if !floats.EqualApprox(rotated, []float64{0, -1, 0}, 1e-9) {
		t.Fatalf("R3(pi/2)*x = %v, want [0 -1 0]", rotated)
	}
}

func TestECIECEFRoundTrip(t *testing.T) {
	v := []float64{7000, 123, -45}
	θ := 1.234
	back := ECEF2ECI(ECI2ECEF(v, θ), θ)
	if !floats.EqualApprox(v, back, 1e-9) {
		t.Fatalf("ECI->ECEF->ECI round trip mismatch: %v != %v", v, back)
	}
}
