package astrocore

import "time"

// State is the capability interface satisfied by anything the integrator
// and trajectory builder can propagate: a fixed-size vector that carries
// its own epoch and can be rebuilt from a flat slice after a step. This
// replaces a class-hierarchy/virtual-dispatch design with plain Go
// interfaces — the integrator and trajectory packages are generic over any
// State, not over a single concrete orbit type.
type State interface {
	// Dim returns the length of the vector returned by AsVector.
	Dim() int
	// AsVector flattens the state into a contiguous slice of Dim() scalars.
	AsVector() []float64
	// SetVector rebuilds the state from a flat vector at the given epoch.
	SetVector(v []float64, epoch time.Time)
	// Epoch returns the epoch currently associated with the state.
	Epoch() time.Time
}

// Dynamics supplies the equations of motion driving a State through the
// integrator, and a hook to enforce state-internal constraints after every
// accepted step.
type Dynamics interface {
	// EOM evaluates dy/dt at tRel seconds past the propagation's start
	// epoch, for state vector y. Must be pure with respect to its inputs.
	EOM(tRel float64, y []float64) ([]float64, error)
	// Finalize is invoked once at propagation start and once after every
	// accepted step, to let the dynamics enforce invariants (e.g. reset a
	// cached quantity) on the state about to be returned to the caller.
	Finalize(s State) (State, error)
}

// FrameProvider supplies frame/origin changes and direction cosine matrices
// to orbits. It must be safe for concurrent use by multiple readers; no
// component in this module mutates it.
type FrameProvider interface {
	// ChangeFrame returns the state of body `to`, expressed relative to
	// body `from`, at epoch dt — i.e. the translation to add/subtract when
	// re-origining an orbit from `from` to `to`.
	ChangeFrame(from, to CelestialObject, dt time.Time) (*Orbit, error)
	// DCM returns the 3x3 direction cosine matrix rotating a vector
	// expressed in `from` into `to`.
	DCM(from, to string, dt time.Time) ([][3]float64, error)
}
