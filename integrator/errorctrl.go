package integrator

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrorCtrl reduces the componentwise embedded error estimate to the single
// scalar the step acceptance test compares against tolerance. It is the
// only policy input to step-size choice (spec step 5).
type ErrorCtrl interface {
	Estimate(errVec, yNext, yPrev []float64) float64
}

// LargestError is the default controller: the infinity norm (largest
// absolute component) of the embedded error vector.
type LargestError struct{}

// Estimate implements ErrorCtrl.
func (LargestError) Estimate(errVec, yNext, yPrev []float64) float64 {
	return floats.Norm(errVec, math.Inf(1))
}

// LargestStateError scales each error component by the corresponding state
// magnitude before taking the infinity norm, excluding any component whose
// state value is (numerically) zero from the scaling to avoid blowup — an
// alternative to LargestError useful when state components span very
// different magnitudes (e.g. augmented sensitivity columns).
type LargestStateError struct{}

// Estimate implements ErrorCtrl.
func (LargestStateError) Estimate(errVec, yNext, yPrev []float64) float64 {
	worst := 0.0
	for i, e := range errVec {
		scale := 1.0
		if m := maxAbs(yNext[i], yPrev[i]); m > 1e-12 {
			scale = m
		}
		if rel := e / scale; rel > worst {
			worst = rel
		} else if -rel > worst {
			worst = -rel
		}
	}
	return worst
}

func maxAbs(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
