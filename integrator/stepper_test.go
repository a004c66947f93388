package integrator_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/integrator"
	"github.com/voyagerops/astrocore/internal/twobody"
)

// circularOrbitState is a minimal astrocore.State wrapping a 6-vector, used
// so these tests exercise Instance.Step without pulling in the full Orbit
// COE machinery.
type circularOrbitState struct {
	v     []float64
	epoch time.Time
}

func (s *circularOrbitState) Dim() int { return 6 }
func (s *circularOrbitState) AsVector() []float64 {
	out := make([]float64, 6)
	copy(out, s.v)
	return out
}
func (s *circularOrbitState) SetVector(v []float64, epoch time.Time) {
	copy(s.v, v)
	s.epoch = epoch
}
func (s *circularOrbitState) Epoch() time.Time { return s.epoch }

const earthMu = 398600.4418

func newCircularState() *circularOrbitState {
	r := 7000.0
	v := math.Sqrt(earthMu / r)
	return &circularOrbitState{
		v:     []float64{r, 0, 0, 0, v, 0},
		epoch: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// TestStepAcceptsWhenErrorWithinTolerance covers spec.md §8 testable
// property 1: an accepted step's reduced error never exceeds tolerance
// (absent a min-step or max-attempts override).
func TestStepAcceptsWhenErrorWithinTolerance(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	opts := integrator.DefaultOptions()
	in := integrator.New(s, dyn, opts)
	in.SetStepSize(30)

	for i := 0; i < 5; i++ {
		if err := in.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if in.Details.Error > opts.Tolerance && in.Details.Attempts < opts.Attempts {
			t.Fatalf("step %d: accepted error %g exceeds tolerance %g", i, in.Details.Error, opts.Tolerance)
		}
	}
}

// TestFixedStepSkipsErrorControl covers spec.md §8 property 2: in
// FixedStep mode, every step uses exactly the requested h with Attempts==1
// and Error==0.
func TestFixedStepSkipsErrorControl(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	opts := integrator.DefaultOptions()
	opts.FixedStep = true
	in := integrator.New(s, dyn, opts)
	in.SetStepSize(10)

	if err := in.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if in.Details.Attempts != 1 {
		t.Fatalf("expected 1 attempt in fixed-step mode, got %d", in.Details.Attempts)
	}
	if in.Details.Error != 0 {
		t.Fatalf("expected zero reported error in fixed-step mode, got %g", in.Details.Error)
	}
	if in.Details.Step != 10*time.Second {
		t.Fatalf("expected exact 10s step, got %s", in.Details.Step)
	}
}

// TestSingularRadiusSurfacesDynamicsFailure covers the EOM error path:
// a zero-radius state must surface astrocore.ErrDynamicsFailure, not panic.
func TestSingularRadiusSurfacesDynamicsFailure(t *testing.T) {
	s := &circularOrbitState{
		v:     []float64{0, 0, 0, 0, 0, 0},
		epoch: time.Now(),
	}
	dyn := twobody.New(earthMu)
	in := integrator.New(s, dyn, integrator.DefaultOptions())
	in.SetStepSize(10)

	err := in.Step()
	if err == nil {
		t.Fatal("expected error for singular radius, got nil")
	}
	var aerr *astrocore.Error
	if !errors.As(err, &aerr) || aerr.Kind != astrocore.ErrDynamicsFailure {
		t.Fatalf("expected ErrDynamicsFailure, got %v", err)
	}
}
