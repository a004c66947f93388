// Package twobody provides a minimal two-body point-mass Dynamics, used
// only to exercise the integrator and trajectory packages' tests.
// It is not part of the public surface: real dynamics (gravity models,
// spacecraft equations of motion) are an external collaborator per the
// toolkit's scope.
package twobody

import (
	"math"

	"github.com/voyagerops/astrocore"
)

// Dynamics implements astrocore.Dynamics for pure two-body motion about a
// single gravitating body, grounded on the teacher's mission.go Func
// Cartesian branch (the bodyAcc term, stripped of perturbations).
type Dynamics struct {
	Mu float64 // gravitational parameter, km^3/s^2
}

// New returns a two-body Dynamics for the given gravitational parameter.
func New(mu float64) Dynamics {
	return Dynamics{Mu: mu}
}

// EOM implements astrocore.Dynamics.
func (d Dynamics) EOM(tRel float64, y []float64) ([]float64, error) {
	rx, ry, rz := y[0], y[1], y[2]
	vx, vy, vz := y[3], y[4], y[5]
	r2 := rx*rx + ry*ry + rz*rz
	r := math.Sqrt(r2)
	if r == 0 {
		return nil, astrocore.NewError(astrocore.ErrDynamicsFailure, "singular: zero radius")
	}
	factor := -d.Mu / (r2 * r)
	return []float64{vx, vy, vz, factor * rx, factor * ry, factor * rz}, nil
}

// Finalize implements astrocore.Dynamics; two-body motion has no
// state-internal constraint to enforce.
func (d Dynamics) Finalize(s astrocore.State) (astrocore.State, error) {
	return s, nil
}
