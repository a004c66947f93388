package hyperdual

import (
	"math"
	"testing"
)

const centralDiffH = 1e-4
const relTol = 1e-8

func centralDiff(f func(float64) float64, x float64) float64 {
	return (f(x+centralDiffH) - f(x-centralDiffH)) / (2 * centralDiffH)
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs((got - want) / want)
}

func TestMulDerivativeMatchesCentralDifference(t *testing.T) {
	f := func(x float64) float64 { return x * 3.5 }
	x := Seed(2.0, 0)
	got := Mul(x, New(3.5))
	want := centralDiff(f, 2.0)
	if relErr(got.Eps[0], want) > 1e-6 {
		t.Fatalf("d/dx(3.5x) at x=2: got %g want ~%g", got.Eps[0], want)
	}
}

func TestSqrtDerivativeMatchesCentralDifference(t *testing.T) {
	f := func(x float64) float64 { return math.Sqrt(x) }
	x := Seed(4.0, 0)
	got, err := Sqrt(x)
	if err != nil {
		t.Fatal(err)
	}
	want := centralDiff(f, 4.0)
	if relErr(got.Eps[0], want) > 1e-6 {
		t.Fatalf("d/dx sqrt(x) at x=4: got %g want ~%g", got.Eps[0], want)
	}
	if got.Real != 2 {
		t.Fatalf("sqrt(4) real part = %g, want 2", got.Real)
	}
}

func TestSqrtNegativeIsNumericDomainError(t *testing.T) {
	if _, err := Sqrt(New(-1)); err == nil {
		t.Fatal("expected error for sqrt of negative real part")
	}
}

func TestVector3NormDerivative(t *testing.T) {
	// norm([x,4,0]) ; d/dx at x=3 is x/norm = 3/5.
	v := NewVector3(3, 4, 0, 0, -1, -1)
	n, err := v.Norm()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(n.Real-5) > 1e-12 {
		t.Fatalf("norm([3,4,0]) = %g, want 5", n.Real)
	}
	f := func(x float64) float64 { return math.Sqrt(x*x + 16) }
	want := centralDiff(f, 3.0)
	if relErr(n.Eps[0], want) > 1e-6 {
		t.Fatalf("d/dx norm([x,4,0]) at x=3: got %g want ~%g", n.Eps[0], want)
	}
}

func TestCrossProductOrthogonality(t *testing.T) {
	a := NewVector3(1, 0, 0, -1, -1, -1)
	b := NewVector3(0, 1, 0, -1, -1, -1)
	c := a.Cross(b)
	if math.Abs(c[2].Real-1) > 1e-12 {
		t.Fatalf("x cross y = %v, want [0 0 1]", c.Real())
	}
}

func TestAtan2Gradient(t *testing.T) {
	y := Seed(1.0, 0)
	x := New(1.0)
	got, err := Atan2(y, x)
	if err != nil {
		t.Fatal(err)
	}
	f := func(yy float64) float64 { return math.Atan2(yy, 1.0) }
	want := centralDiff(f, 1.0)
	if relErr(got.Eps[0], want) > relTol*10 {
		t.Fatalf("d/dy atan2(y,1) at y=1: got %g want ~%g", got.Eps[0], want)
	}
}
