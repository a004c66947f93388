// Package hyperdual implements hyperdual number arithmetic: a commutative
// ring extension of the reals that carries first derivative information
// through any composition of the operations defined here. A Number stacks
// one real part with six infinitesimal (epsilon) parts so that a single
// evaluation of a vector-valued function at a seeded input yields, in one
// pass, the function value together with the partial derivative along each
// of the six seeded directions (typically the three position and three
// velocity components of an orbital state).
//
// This avoids both symbolic differentiation and finite-difference
// approximation: the derivative falls out of the arithmetic exactly, to
// floating point precision, the same way complex numbers carry a second
// real axis through ordinary arithmetic.
package hyperdual

import (
	"math"

	"github.com/voyagerops/astrocore"
)

// Number is a hyperdual number: one real part and six independent
// infinitesimal parts. It uses the "multidual" layout rather than the
// [real, e1, e2, e1e2, ...] layout of classic hyperdual numbers: one real
// part plus six independent first-order
// epsilon parts, each of which squares to zero and whose cross products are
// discarded (first-order AD only — sufficient for a Jacobian, which is all
// the B-Plane targeter needs).
type Number struct {
	Real float64
	Eps  [6]float64
}

// New returns a hyperdual constant with no seeded derivative.
func New(real float64) Number {
	return Number{Real: real}
}

// Seed returns a hyperdual number representing an independent variable: its
// real part is v, and its derivative along direction dir (0..5) is 1, all
// others zero. Composing seeded numbers through arithmetic propagates the
// partial derivative with respect to each seeded direction independently.
func Seed(v float64, dir int) Number {
	n := Number{Real: v}
	n.Eps[dir] = 1
	return n
}

// Add returns a+b.
func Add(a, b Number) Number {
	var r Number
	r.Real = a.Real + b.Real
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] + b.Eps[i]
	}
	return r
}

// Sub returns a-b.
func Sub(a, b Number) Number {
	var r Number
	r.Real = a.Real - b.Real
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] - b.Eps[i]
	}
	return r
}

// Neg returns -a.
func Neg(a Number) Number {
	return Sub(New(0), a)
}

// Scale returns a*s for a real scalar s.
func Scale(a Number, s float64) Number {
	var r Number
	r.Real = a.Real * s
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * s
	}
	return r
}

// Mul returns a*b; eps-eps cross terms are second order and dropped, which
// is exact for first-derivative propagation (d(uv) = u dv + v du).
func Mul(a, b Number) Number {
	var r Number
	r.Real = a.Real * b.Real
	for i := range r.Eps {
		r.Eps[i] = a.Real*b.Eps[i] + a.Eps[i]*b.Real
	}
	return r
}

// Div returns a/b. Domain error (division by a zero real part) surfaces as
// astrocore.ErrNumericDomain via a panic-free pair return.
func Div(a, b Number) (Number, error) {
	if b.Real == 0 {
		return Number{}, astrocore.NewError(astrocore.ErrNumericDomain, "hyperdual division by zero real part")
	}
	var r Number
	r.Real = a.Real / b.Real
	invB2 := 1 / (b.Real * b.Real)
	for i := range r.Eps {
		r.Eps[i] = (a.Eps[i]*b.Real - a.Real*b.Eps[i]) * invB2
	}
	return r, nil
}

// Sqrt returns sqrt(a). Domain error for a negative real part.
func Sqrt(a Number) (Number, error) {
	if a.Real < 0 {
		return Number{}, astrocore.NewErrorf(astrocore.ErrNumericDomain, "sqrt of negative real part %g", a.Real)
	}
	var r Number
	r.Real = math.Sqrt(a.Real)
	if r.Real == 0 {
		return Number{}, astrocore.NewError(astrocore.ErrNumericDomain, "sqrt derivative undefined at zero")
	}
	d := 0.5 / r.Real
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * d
	}
	return r, nil
}

// Powi returns a^n for an integer exponent n, via d(a^n) = n a^(n-1) da.
func Powi(a Number, n int) Number {
	if n == 0 {
		return New(1)
	}
	real := math.Pow(a.Real, float64(n))
	d := float64(n) * math.Pow(a.Real, float64(n-1))
	var r Number
	r.Real = real
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * d
	}
	return r
}

// Powf returns a^p for a real exponent p, requiring a.Real > 0.
func Powf(a Number, p float64) (Number, error) {
	if a.Real <= 0 {
		return Number{}, astrocore.NewErrorf(astrocore.ErrNumericDomain, "powf of non-positive real part %g", a.Real)
	}
	real := math.Pow(a.Real, p)
	d := p * math.Pow(a.Real, p-1)
	var r Number
	r.Real = real
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * d
	}
	return r, nil
}

// Exp returns e^a.
func Exp(a Number) Number {
	e := math.Exp(a.Real)
	var r Number
	r.Real = e
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * e
	}
	return r
}

// Ln returns the natural log of a, requiring a.Real > 0.
func Ln(a Number) (Number, error) {
	if a.Real <= 0 {
		return Number{}, astrocore.NewErrorf(astrocore.ErrNumericDomain, "ln of non-positive real part %g", a.Real)
	}
	var r Number
	r.Real = math.Log(a.Real)
	d := 1 / a.Real
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * d
	}
	return r, nil
}

// Sin returns sin(a).
func Sin(a Number) Number {
	s, c := math.Sincos(a.Real)
	var r Number
	r.Real = s
	for i := range r.Eps {
		r.Eps[i] = a.Eps[i] * c
	}
	return r
}

// Cos returns cos(a).
func Cos(a Number) Number {
	s, c := math.Sincos(a.Real)
	var r Number
	r.Real = c
	for i := range r.Eps {
		r.Eps[i] = -a.Eps[i] * s
	}
	return r
}

// Atan2 returns atan2(y, x) with derivative d(atan2(y,x)) = (x dy - y dx) / (x^2+y^2).
func Atan2(y, x Number) (Number, error) {
	denom := x.Real*x.Real + y.Real*y.Real
	if denom == 0 {
		return Number{}, astrocore.NewError(astrocore.ErrNumericDomain, "atan2 undefined at origin")
	}
	var r Number
	r.Real = math.Atan2(y.Real, x.Real)
	for i := range r.Eps {
		r.Eps[i] = (x.Real*y.Eps[i] - y.Real*x.Eps[i]) / denom
	}
	return r, nil
}

// Gradient returns the six partial derivatives carried by a.
func (a Number) Gradient() [6]float64 {
	return a.Eps
}
