package trajectory_test

import (
	"math"
	"testing"
	"time"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/integrator"
	"github.com/voyagerops/astrocore/internal/twobody"
	"github.com/voyagerops/astrocore/trajectory"
)

type vecState struct {
	v     []float64
	epoch time.Time
}

func (s *vecState) Dim() int                               { return 6 }
func (s *vecState) AsVector() []float64                    { out := make([]float64, 6); copy(out, s.v); return out }
func (s *vecState) SetVector(v []float64, epoch time.Time) { copy(s.v, v); s.epoch = epoch }
func (s *vecState) Epoch() time.Time                       { return s.epoch }

const earthMu = 398600.4418

func newCircular() *vecState {
	r := 7000.0
	v := math.Sqrt(earthMu / r)
	return &vecState{
		v:     []float64{r, 0, 0, 0, v, 0},
		epoch: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// TestBuildWithTrajCoversFullInterval checks that the final state lands on
// the requested epoch, the trajectory's coverage spans the full delta, and
// evaluating at the midpoint returns a 6-vector.
func TestBuildWithTrajCoversFullInterval(t *testing.T) {
	s := newCircular()
	dyn := twobody.New(earthMu)
	opts := integrator.DefaultOptions()
	opts.MaxStep = 60 * time.Second
	b := trajectory.NewBuilder(opts)

	start := s.epoch
	delta := 2 * time.Hour
	tr, final, err := b.BuildWithTraj(s, dyn, delta)
	if err != nil {
		t.Fatalf("BuildWithTraj: %v", err)
	}
	if final.Epoch() != start.Add(delta) {
		t.Fatalf("final epoch = %s, want %s", final.Epoch(), start.Add(delta))
	}
	if !tr.Start().Equal(start) {
		t.Fatalf("trajectory start = %s, want %s", tr.Start(), start)
	}
	if tr.End().Before(start.Add(delta - time.Second)) {
		t.Fatalf("trajectory end %s does not reach requested delta", tr.End())
	}

	mid := start.Add(delta / 2)
	y, err := tr.EvaluateState(mid)
	if err != nil {
		t.Fatalf("EvaluateState(mid): %v", err)
	}
	if len(y) != 6 {
		t.Fatalf("expected 6-vector, got %d", len(y))
	}
}

// TestEvaluateOutOfBoundsFails covers the OutOfBounds edge case named by
// spec.md §4.4.
func TestEvaluateOutOfBoundsFails(t *testing.T) {
	s := newCircular()
	dyn := twobody.New(earthMu)
	b := trajectory.NewBuilder(integrator.DefaultOptions())

	tr, _, err := b.BuildWithTraj(s, dyn, 30*time.Minute)
	if err != nil {
		t.Fatalf("BuildWithTraj: %v", err)
	}
	_, err = tr.EvaluateState(tr.Start().Add(-time.Hour))
	if err == nil {
		t.Fatal("expected OutOfBounds error for epoch before coverage")
	}
	var aerr *astrocore.Error
	if e, ok := err.(*astrocore.Error); !ok || e.Kind != astrocore.ErrOutOfBounds {
		_ = aerr
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

// TestBackwardDeltaRejected covers spec.md §9's documented limitation: the
// trajectory builder is forward-only.
func TestBackwardDeltaRejected(t *testing.T) {
	s := newCircular()
	dyn := twobody.New(earthMu)
	b := trajectory.NewBuilder(integrator.DefaultOptions())

	_, _, err := b.BuildWithTraj(s, dyn, -time.Hour)
	if err == nil {
		t.Fatal("expected error for backward delta")
	}
}

// TestShortRunFallbackStillCoversInterval exercises the short-run fallback
// path (spec.md §4.4 step 5) by requesting a delta small enough that a
// loose tolerance produces fewer than P adaptive steps.
func TestShortRunFallbackStillCoversInterval(t *testing.T) {
	s := newCircular()
	dyn := twobody.New(earthMu)
	opts := integrator.DefaultOptions()
	opts.Tolerance = 1e-2
	opts.MaxStep = 20 * time.Minute
	b := trajectory.NewBuilder(opts)

	start := s.epoch
	delta := 30 * time.Second
	tr, _, err := b.BuildWithTraj(s, dyn, delta)
	if err != nil {
		t.Fatalf("BuildWithTraj: %v", err)
	}
	if tr.NumSegments() == 0 {
		t.Fatal("expected at least one segment from fallback fixed-step run")
	}
	if !tr.Start().Equal(start) || !tr.End().Equal(start.Add(delta)) {
		t.Fatalf("fallback trajectory covers [%s, %s], want [%s, %s]", tr.Start(), tr.End(), start, start.Add(delta))
	}
}
