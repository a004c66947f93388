package integrator

import "time"

// Options holds the immutable tuning knobs for one propagation run.
type Options struct {
	Tolerance float64       // positive; compared against the reduced error estimate
	MinStep   time.Duration // positive; adaptation never shrinks the step below this
	MaxStep   time.Duration // positive; adaptation never grows the step above this
	Attempts  int           // max retries per step before forced acceptance (spec: max_attempts)
	FixedStep bool          // when true, adaptation is skipped entirely
	Method    Method
	ErrorCtrl ErrorCtrl
}

// DefaultOptions returns sensible defaults for Earth-orbit propagation:
// Dormand-Prince 5(4), 1e-10 absolute tolerance, 1s..1200s step
// bounds, 10 retries, largest-component error control.
func DefaultOptions() Options {
	return Options{
		Tolerance: 1e-10,
		MinStep:   time.Second,
		MaxStep:   20 * time.Minute,
		Attempts:  10,
		Method:    DormandPrince54,
		ErrorCtrl: LargestError{},
	}
}

// Details are the observable results of the most recently accepted step.
// Mutated only by Instance.Step.
type Details struct {
	Step     time.Duration // signed: the h actually used
	Error    float64       // the reduced scalar error (0 in fixed-step mode)
	Attempts int           // number of evaluations used for this step, >=1
}

func (d Details) String() string {
	return "step: " + d.Step.String()
}
