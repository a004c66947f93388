// Package bplane computes B-Plane targeting coordinates and their
// velocity-partial Jacobians via hyperdual arithmetic, grounded on
// original_source's src/celestia/bplane.rs.
package bplane

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/hyperdual"
)

// Invariant names the velocity component held fixed by a 2x2 reduced
// Jacobian solve.
type Invariant int

const (
	VX Invariant = iota
	VY
	VZ
)

// Plane is a B-Plane computed at one orbit state. BT, BR and LTOF carry
// hyperdual duals: slots 0-2 hold partials with respect to position
// (unused downstream), slots 3-5 hold partials with respect to vx, vy, vz
// — exactly what the targeter's Jacobians consume.
type Plane struct {
	BT, BR, LTOF hyperdual.Number
	DCM          [3][3]float64 // rows: s_hat, t_hat, r_hat (real parts)
	Epoch        time.Time
}

// New builds a B-Plane from a hyperbolic orbit. It fails with
// astrocore.ErrNotHyperbolic if the orbit's eccentricity is not above one.
func New(orbit *astrocore.Orbit) (*Plane, error) {
	_, e, _, _, _, _, _, _, _ := orbit.Elements()
	if e <= 1.0 {
		return nil, astrocore.NewError(astrocore.ErrNotHyperbolic, "orbit is not hyperbolic; convert to a target object first")
	}

	r := orbit.R()
	v := orbit.V()

	// Lift position into slots 0-2, velocity into slots 3-5: each component
	// carries a unit dual in its own slot, per spec.md §4.5.
	rv := hyperdual.Vector3{
		hyperdual.Seed(r[0], 0),
		hyperdual.Seed(r[1], 1),
		hyperdual.Seed(r[2], 2),
	}
	vv := hyperdual.Vector3{
		hyperdual.Seed(v[0], 3),
		hyperdual.Seed(v[1], 4),
		hyperdual.Seed(v[2], 5),
	}

	mu := hyperdual.New(orbit.Origin.Mu)
	one := hyperdual.New(1)

	rNorm, err := rv.Norm()
	if err != nil {
		return nil, err
	}
	vNorm, err := vv.Norm()
	if err != nil {
		return nil, err
	}

	// Eccentricity vector: e_vec = ((|v|^2 - mu/|r|)*r - (r.v)*v) / mu
	vSq := hyperdual.Mul(vNorm, vNorm)
	muOverR, err := hyperdual.Div(mu, rNorm)
	if err != nil {
		return nil, err
	}
	coeffR := hyperdual.Sub(vSq, muOverR)
	rDotV := rv.Dot(vv)
	eVecNum := rv.ScaleN(coeffR).Sub(vv.ScaleN(rDotV))
	eVecScaled, err := divVector(eVecNum, mu)
	if err != nil {
		return nil, err
	}

	ecc, err := eVecScaled.Norm()
	if err != nil {
		return nil, err
	}
	eHat, err := eVecScaled.Unit()
	if err != nil {
		return nil, err
	}

	hVec := rv.Cross(vv)
	hMag, err := hVec.Norm()
	if err != nil {
		return nil, err
	}
	hHat, err := hVec.Unit()
	if err != nil {
		return nil, err
	}

	nHat := hHat.Cross(eHat)

	invEcc, err := hyperdual.Div(one, ecc)
	if err != nil {
		return nil, err
	}
	invEccSq := hyperdual.Mul(invEcc, invEcc)
	sqrtTerm, err := hyperdual.Sqrt(hyperdual.Sub(one, invEccSq))
	if err != nil {
		return nil, err
	}

	sRaw := hyperdual.Vector3{
		hyperdual.Add(hyperdual.Mul(eHat[0], invEcc), hyperdual.Mul(nHat[0], sqrtTerm)),
		hyperdual.Add(hyperdual.Mul(eHat[1], invEcc), hyperdual.Mul(nHat[1], sqrtTerm)),
		hyperdual.Add(hyperdual.Mul(eHat[2], invEcc), hyperdual.Mul(nHat[2], sqrtTerm)),
	}
	sHat, err := sRaw.Unit()
	if err != nil {
		return nil, err
	}

	// Semi-minor axis b = |h|^2 / (mu * sqrt(e^2 - 1)).
	eSqMinus1, err := hyperdual.Sqrt(hyperdual.Sub(hyperdual.Mul(ecc, ecc), one))
	if err != nil {
		return nil, err
	}
	hMagSq := hyperdual.Mul(hMag, hMag)
	semiMinorB, err := hyperdual.Div(hMagSq, hyperdual.Mul(mu, eSqMinus1))
	if err != nil {
		return nil, err
	}

	bVec := hyperdual.Vector3{
		hyperdual.Mul(semiMinorB, hyperdual.Sub(hyperdual.Mul(sqrtTerm, eHat[0]), hyperdual.Mul(invEcc, nHat[0]))),
		hyperdual.Mul(semiMinorB, hyperdual.Sub(hyperdual.Mul(sqrtTerm, eHat[1]), hyperdual.Mul(invEcc, nHat[1]))),
		hyperdual.Mul(semiMinorB, hyperdual.Sub(hyperdual.Mul(sqrtTerm, eHat[2]), hyperdual.Mul(invEcc, nHat[2]))),
	}

	zHat := hyperdual.Vector3{hyperdual.New(0), hyperdual.New(0), hyperdual.New(1)}
	tRaw := sHat.Cross(zHat)
	tHat, err := tRaw.Unit()
	if err != nil {
		return nil, err
	}
	rHat := sHat.Cross(tHat)

	bt := bVec.Dot(tHat)
	br := bVec.Dot(rHat)
	bs := bVec.Dot(sHat)
	ltof, err := hyperdual.Div(bs, vNorm)
	if err != nil {
		return nil, err
	}

	return &Plane{
		BT:    bt,
		BR:    br,
		LTOF:  ltof,
		DCM:   [3][3]float64{sHat.Real(), tHat.Real(), rHat.Real()},
		Epoch: orbit.Epoch(),
	}, nil
}

// divVector divides each component of v by the hyperdual scalar n.
func divVector(v hyperdual.Vector3, n hyperdual.Number) (hyperdual.Vector3, error) {
	x, err := hyperdual.Div(v[0], n)
	if err != nil {
		return hyperdual.Vector3{}, err
	}
	y, err := hyperdual.Div(v[1], n)
	if err != nil {
		return hyperdual.Vector3{}, err
	}
	z, err := hyperdual.Div(v[2], n)
	if err != nil {
		return hyperdual.Vector3{}, err
	}
	return hyperdual.Vector3{x, y, z}, nil
}

// BDotT returns the real B_T component, in kilometers.
func (p *Plane) BDotT() float64 { return p.BT.Real }

// BDotR returns the real B_R component, in kilometers.
func (p *Plane) BDotR() float64 { return p.BR.Real }

// LTOFDuration returns the real linearized time of flight.
func (p *Plane) LTOFDuration() time.Duration {
	return time.Duration(p.LTOF.Real * float64(time.Second))
}

// Jacobian returns the inverted 3x3 Jacobian of (B_T, B_R, LTOF) with
// respect to (vx, vy, vz), per spec.md §4.5. If the matrix is singular, it
// fails with astrocore.ErrSingular.
func (p *Plane) Jacobian() (*mat.Dense, error) {
	j := mat.NewDense(3, 3, []float64{
		p.BT.Eps[3], p.BT.Eps[4], p.BT.Eps[5],
		p.BR.Eps[3], p.BR.Eps[4], p.BR.Eps[5],
		p.LTOF.Eps[3], p.LTOF.Eps[4], p.LTOF.Eps[5],
	})
	var inv mat.Dense
	if err := inv.Inverse(j); err != nil {
		return nil, astrocore.NewErrorf(astrocore.ErrSingular, "3x3 B-Plane jacobian: %v", err)
	}
	return &inv, nil
}

// Jacobian2 returns the inverted 2x2 Jacobian of (B_T, B_R) with respect to
// the two velocity components not held invariant. Any invariant other than
// VX, VY or VZ fails with astrocore.ErrBadInvariant.
func (p *Plane) Jacobian2(invariant Invariant) (*mat.Dense, error) {
	var j *mat.Dense
	switch invariant {
	case VX:
		j = mat.NewDense(2, 2, []float64{p.BT.Eps[4], p.BT.Eps[5], p.BR.Eps[4], p.BR.Eps[5]})
	case VY:
		j = mat.NewDense(2, 2, []float64{p.BT.Eps[3], p.BT.Eps[5], p.BR.Eps[3], p.BR.Eps[5]})
	case VZ:
		j = mat.NewDense(2, 2, []float64{p.BT.Eps[3], p.BT.Eps[4], p.BR.Eps[3], p.BR.Eps[4]})
	default:
		return nil, astrocore.NewError(astrocore.ErrBadInvariant, "jacobian2 invariant must be VX, VY or VZ")
	}
	var inv mat.Dense
	if err := inv.Inverse(j); err != nil {
		return nil, astrocore.NewErrorf(astrocore.ErrSingular, "2x2 B-Plane jacobian: %v", err)
	}
	return &inv, nil
}
