package astrocore

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
)

// Norm returns the Euclidean norm of a 3-vector.
func Norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Unit returns the unit vector of a, or the zero vector if a is too small
// to normalize safely.
func Unit(a []float64) []float64 {
	n := Norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return make([]float64, len(a))
	}
	b := make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return b
}

// Sign returns the sign of v, treating values within 1e-12 of zero as
// positive (matching the convention used by the orbital element branches
// that divide by Sign of a near-zero quantity).
func Sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Dot returns the inner product of two 3-vectors.
func Dot(a, b []float64) float64 {
	return mat.NewVecDense(len(a), a).Dot(mat.NewVecDense(len(b), b))
}

// Cross returns a x b for two 3-vectors.
func Cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Spherical2Cartesian converts a [r, θ, φ] spherical vector to Cartesian.
func Spherical2Cartesian(a []float64) []float64 {
	b := make([]float64, 3)
	sθ, cθ := math.Sincos(a[1])
	sφ, cφ := math.Sincos(a[2])
	b[0] = a[0] * sθ * cφ
	b[1] = a[0] * sθ * sφ
	b[2] = a[0] * cθ
	return b
}

// Cartesian2Spherical converts a Cartesian 3-vector to [r, θ, φ].
func Cartesian2Spherical(a []float64) []float64 {
	b := make([]float64, 3)
	if Norm(a) == 0 {
		return b
	}
	b[0] = Norm(a)
	b[1] = math.Acos(a[2] / b[0])
	b[2] = math.Atan2(a[1], a[0])
	return b
}

// Deg2rad converts degrees to radians and normalizes to [0, 2π) for inputs
// of at least -360.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees and normalizes to [0, 360) for inputs
// of at least -2π.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// Rad2deg180 converts radians to degrees, normalized to [-180, 180] for
// inputs in [-3π, 3π].
func Rad2deg180(a float64) float64 {
	if a < -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// R1 returns the rotation matrix about the first axis by angle x.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 returns the rotation matrix about the second axis by angle x.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 returns the rotation matrix about the third axis by angle x.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// R3R1R3 performs a 3-1-3 Euler angle rotation (Schaub & Junkins convention).
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{
		cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2,
	})
}

// Rot313Vec rotates vI by a 3-1-3 Euler angle sequence (e.g. PQW to ECI).
func Rot313Vec(θ1, θ2, θ3 float64, vI []float64) []float64 {
	return MxV33(R3R1R3(θ1, θ2, θ3), vI)
}

// MxV33 multiplies a 3x3 matrix by a 3-vector. Dimensions are not checked.
func MxV33(m *mat.Dense, v []float64) []float64 {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(len(v), v))
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// EarthRotationRate is the sidereal rotation rate of the Earth, in rad/s.
const EarthRotationRate = 7.292115146706979e-5

// GEO2ECEF converts a geodetic altitude/latitude/longitude (radians, km
// altitude above the reference body's mean radius) to a spherical ECEF
// position vector, approximating the body as a sphere of Earth's radius.
func GEO2ECEF(altitude, latΦ, longθ float64) []float64 {
	r := Earth.Radius + altitude
	return Spherical2Cartesian([]float64{r, math.Pi/2 - latΦ, longθ})
}

// ECI2ECEF rotates an ECI vector into the ECEF frame given the Greenwich
// sidereal angle θgst (radians).
func ECI2ECEF(v []float64, θgst float64) []float64 {
	return MxV33(R3(θgst), v)
}

// ECEF2ECI rotates an ECEF vector into the ECI frame given the Greenwich
// sidereal angle θgst (radians).
func ECEF2ECI(v []float64, θgst float64) []float64 {
	return MxV33(R3(-θgst), v)
}
