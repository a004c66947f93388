package integrator

import (
	"math"
	"time"

	"github.com/voyagerops/astrocore"
)

// Instance drives a single astrocore.State through one astrocore.Dynamics
// using one embedded RK Method. It is strictly single-threaded: an Instance
// holds no package-level state, so distinct Instances are safely used from
// distinct goroutines (the teacher's mission.go used a package-level
// sync.WaitGroup; this keeps all bookkeeping instance-scoped instead).
type Instance struct {
	State      astrocore.State
	Dynamics   astrocore.Dynamics
	Opts       Options
	Details    Details
	StartEpoch time.Time

	h float64 // current step size, seconds, signed
}

// New returns an Instance ready to step state forward (or backward, once a
// negative step is set via SetStepSize) starting at its current epoch.
func New(state astrocore.State, dyn astrocore.Dynamics, opts Options) *Instance {
	return &Instance{
		State:      state,
		Dynamics:   dyn,
		Opts:       opts,
		StartEpoch: state.Epoch(),
		h:          opts.MaxStep.Seconds(),
	}
}

// SetStepSize overrides the current step size (seconds, signed). Used by
// the driver to negate the step for backward propagation and by the
// trajectory builder's short-run fallback to force a fixed step.
func (in *Instance) SetStepSize(seconds float64) {
	in.h = seconds
}

// StepSize returns the current signed step size in seconds.
func (in *Instance) StepSize() float64 {
	return in.h
}

// Step performs one adaptive embedded-RK step, mutating in.State in place
// and updating in.Details. It implements spec.md §4.2's seven-step
// algorithm verbatim, generalized from the teacher's fixed-step RK4 loop
// (src/integrator/rk4.go) to an s-stage embedded method with error-driven
// step adaptation (grounded on original_source/src/propagators/instance.rs's
// `derive()`).
func (in *Instance) Step() error {
	m := in.Opts.Method
	n := in.State.Dim()
	y := in.State.AsVector()
	tRel := in.State.Epoch().Sub(in.StartEpoch).Seconds()

	attempts := 0
	for {
		attempts++
		h := in.h
		k := make([][]float64, m.Stages)
		var err error
		k[0], err = in.Dynamics.EOM(tRel, y)
		if err != nil {
			return astrocore.NewErrorf(astrocore.ErrDynamicsFailure, "stage 0: %v", err)
		}
		if !finiteVec(k[0]) {
			return astrocore.NewError(astrocore.ErrDynamicsFailure, "non-finite derivative at stage 0")
		}
		for i := 1; i < m.Stages; i++ {
			wi := make([]float64, n)
			for j := 0; j < i; j++ {
				a := m.A[i][j]
				if a == 0 {
					continue
				}
				for c := 0; c < n; c++ {
					wi[c] += a * k[j][c]
				}
			}
			yi := make([]float64, n)
			for c := 0; c < n; c++ {
				yi[c] = y[c] + h*wi[c]
			}
			k[i], err = in.Dynamics.EOM(tRel+m.C[i]*h, yi)
			if err != nil {
				return astrocore.NewErrorf(astrocore.ErrDynamicsFailure, "stage %d: %v", i, err)
			}
			if !finiteVec(k[i]) {
				return astrocore.NewErrorf(astrocore.ErrDynamicsFailure, "non-finite derivative at stage %d", i)
			}
		}

		yNext := make([]float64, n)
		for c := 0; c < n; c++ {
			sum := 0.0
			for i := 0; i < m.Stages; i++ {
				sum += m.B[i] * k[i][c]
			}
			yNext[c] = y[c] + h*sum
		}

		if in.Opts.FixedStep {
			in.Details = Details{Step: secondsToDuration(h), Error: 0, Attempts: attempts}
			return in.finalize(yNext, h)
		}

		errVec := make([]float64, n)
		for c := 0; c < n; c++ {
			sum := 0.0
			for i := 0; i < m.Stages; i++ {
				sum += (m.B[i] - m.BStar[i]) * k[i][c]
			}
			errVec[c] = h * sum
		}
		ctrl := in.Opts.ErrorCtrl
		if ctrl == nil {
			ctrl = LargestError{}
		}
		errScalar := math.Abs(ctrl.Estimate(errVec, yNext, y))

		minStepS := in.Opts.MinStep.Seconds()
		maxStepS := in.Opts.MaxStep.Seconds()
		accept := errScalar <= in.Opts.Tolerance || math.Abs(h) <= minStepS || attempts >= in.Opts.Attempts

		if accept {
			in.Details = Details{Step: secondsToDuration(h), Error: errScalar, Attempts: attempts}
			if errScalar > 0 {
				proposed := 0.9 * math.Abs(h) * math.Pow(in.Opts.Tolerance/errScalar, 1/float64(m.Order))
				in.h = clampStep(proposed, minStepS, maxStepS) * sign(h)
			}
			return in.finalize(yNext, h)
		}

		shrink := 0.9 * math.Abs(h) * math.Pow(in.Opts.Tolerance/errScalar, 1/float64(m.Order-1))
		h = clampStep(shrink, minStepS, maxStepS) * sign(h)
		in.h = h
	}
}

func (in *Instance) finalize(yNext []float64, usedH float64) error {
	newEpoch := in.State.Epoch().Add(secondsToDuration(usedH))
	in.State.SetVector(yNext, newEpoch)
	finalized, err := in.Dynamics.Finalize(in.State)
	if err != nil {
		return err
	}
	if finalized != nil {
		in.State = finalized
	}
	return nil
}

func finiteVec(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func clampStep(s, lo, hi float64) float64 {
	if s < lo {
		return lo
	}
	if s > hi {
		return hi
	}
	return s
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
