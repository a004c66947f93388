package hyperdual

// Vector3 is a 3-vector of hyperdual numbers, used to lift the orbital
// vector algebra (eccentricity vector, angular momentum vector, B-Plane
// unit vectors) into a form that carries partial derivatives with respect
// to up to six seeded inputs (typically the Cartesian position and velocity
// components).
type Vector3 [3]Number

// NewVector3 builds a Vector3 from three plain floats seeded at the given
// directions (or unseeded, passing -1).
func NewVector3(x, y, z float64, dirX, dirY, dirZ int) Vector3 {
	seed := func(v float64, dir int) Number {
		if dir < 0 {
			return New(v)
		}
		return Seed(v, dir)
	}
	return Vector3{seed(x, dirX), seed(y, dirY), seed(z, dirZ)}
}

// Add returns a+b componentwise.
func (a Vector3) Add(b Vector3) Vector3 {
	return Vector3{Add(a[0], b[0]), Add(a[1], b[1]), Add(a[2], b[2])}
}

// Sub returns a-b componentwise.
func (a Vector3) Sub(b Vector3) Vector3 {
	return Vector3{Sub(a[0], b[0]), Sub(a[1], b[1]), Sub(a[2], b[2])}
}

// Scale returns a*s for a real scalar s.
func (a Vector3) Scale(s float64) Vector3 {
	return Vector3{Scale(a[0], s), Scale(a[1], s), Scale(a[2], s)}
}

// ScaleN returns a*n for a hyperdual scalar n.
func (a Vector3) ScaleN(n Number) Vector3 {
	return Vector3{Mul(a[0], n), Mul(a[1], n), Mul(a[2], n)}
}

// Dot returns the scalar dot product a.b.
func (a Vector3) Dot(b Vector3) Number {
	return Add(Add(Mul(a[0], b[0]), Mul(a[1], b[1])), Mul(a[2], b[2]))
}

// Cross returns a x b.
func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		Sub(Mul(a[1], b[2]), Mul(a[2], b[1])),
		Sub(Mul(a[2], b[0]), Mul(a[0], b[2])),
		Sub(Mul(a[0], b[1]), Mul(a[1], b[0])),
	}
}

// Norm returns the Euclidean norm of a, carrying the derivative of the norm
// itself with respect to every seeded direction in a's components.
func (a Vector3) Norm() (Number, error) {
	return Sqrt(a.Dot(a))
}

// Unit returns a normalized to unit length.
func (a Vector3) Unit() (Vector3, error) {
	n, err := a.Norm()
	if err != nil {
		return Vector3{}, err
	}
	x, err := Div(a[0], n)
	if err != nil {
		return Vector3{}, err
	}
	y, err := Div(a[1], n)
	if err != nil {
		return Vector3{}, err
	}
	z, err := Div(a[2], n)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{x, y, z}, nil
}

// Real returns the plain-float value of a, discarding all derivatives.
func (a Vector3) Real() [3]float64 {
	return [3]float64{a[0].Real, a[1].Real, a[2].Real}
}
