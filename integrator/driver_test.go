package integrator_test

import (
	"math"
	"testing"
	"time"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/integrator"
	"github.com/voyagerops/astrocore/internal/twobody"
)

// TestForDurationZeroIsIdentity covers spec.md §8 property 3: a zero-delta
// call returns the current state unchanged.
func TestForDurationZeroIsIdentity(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	d := integrator.NewDriver(integrator.New(s, dyn, integrator.DefaultOptions()), nil)

	before := s.AsVector()
	out, err := d.ForDuration(0)
	if err != nil {
		t.Fatalf("ForDuration(0): %v", err)
	}
	after := out.AsVector()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("state mutated on zero-delta propagation: %v != %v", before, after)
		}
	}
	if out.Epoch() != s.epoch {
		t.Fatalf("epoch mutated on zero-delta propagation")
	}
}

// TestForDurationLandsExactlyOnStopEpoch checks the terminal-step trim: the
// final state's epoch must equal the requested stop epoch exactly, not
// merely within one step size.
func TestForDurationLandsExactlyOnStopEpoch(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	d := integrator.NewDriver(integrator.New(s, dyn, integrator.DefaultOptions()), nil)

	delta := 47 * time.Minute
	want := s.epoch.Add(delta)
	out, err := d.ForDuration(delta)
	if err != nil {
		t.Fatalf("ForDuration: %v", err)
	}
	if !out.Epoch().Equal(want) {
		t.Fatalf("epoch = %s, want %s", out.Epoch(), want)
	}
}

// TestForwardBackwardRoundTrip covers spec.md §8 property 4 / scenario S6:
// propagating forward one day then backward one day returns a state within
// tolerance x order of the original, for a circular two-body orbit.
func TestForwardBackwardRoundTrip(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	opts := integrator.DefaultOptions()
	d := integrator.NewDriver(integrator.New(s, dyn, opts), nil)

	start := s.AsVector()
	if _, err := d.ForDuration(24 * time.Hour); err != nil {
		t.Fatalf("forward leg: %v", err)
	}
	out, err := d.ForDuration(-24 * time.Hour)
	if err != nil {
		t.Fatalf("backward leg: %v", err)
	}
	end := out.AsVector()

	maxAbs := 0.0
	for i := range start {
		if d := math.Abs(start[i] - end[i]); d > maxAbs {
			maxAbs = d
		}
	}
	// A day of round-trip propagation accumulates error proportional to
	// tolerance times the method order; this bound is generous (km, km/s).
	bound := opts.Tolerance * float64(opts.Method.Order) * 1e7
	if maxAbs > bound {
		t.Fatalf("round-trip drift %g exceeds bound %g", maxAbs, bound)
	}
	if !out.Epoch().Equal(s.epoch) {
		t.Fatalf("round-trip epoch = %s, want %s", out.Epoch(), s.epoch)
	}
}

// TestUntilEpochMatchesForDuration checks UntilEpoch is exactly
// ForDuration(t.Sub(epoch)).
func TestUntilEpochMatchesForDuration(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	d := integrator.NewDriver(integrator.New(s, dyn, integrator.DefaultOptions()), nil)

	target := s.epoch.Add(10 * time.Minute)
	out, err := d.UntilEpoch(target)
	if err != nil {
		t.Fatalf("UntilEpoch: %v", err)
	}
	if !out.Epoch().Equal(target) {
		t.Fatalf("epoch = %s, want %s", out.Epoch(), target)
	}

	ref := newCircularState()
	refDriver := integrator.NewDriver(integrator.New(ref, dyn, integrator.DefaultOptions()), nil)
	refOut, err := refDriver.ForDuration(10 * time.Minute)
	if err != nil {
		t.Fatalf("ForDuration: %v", err)
	}
	got, want := out.AsVector(), refOut.AsVector()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UntilEpoch state %v != ForDuration state %v", got, want)
		}
	}
}

// TestForDurationWithChannelPublishesEveryAcceptedStep checks that the
// publish channel receives at least one state per accepted step and the
// call returns once propagation completes.
func TestForDurationWithChannelPublishesEveryAcceptedStep(t *testing.T) {
	s := newCircularState()
	dyn := twobody.New(earthMu)
	opts := integrator.DefaultOptions()
	opts.MaxStep = 30 * time.Second
	d := integrator.NewDriver(integrator.New(s, dyn, opts), nil)

	ch := make(chan astrocore.State, 64)
	count := 0
	done := make(chan struct{})
	go func() {
		for range ch {
			count++
		}
		close(done)
	}()

	if _, err := d.ForDurationWithChannel(5*time.Minute, ch); err != nil {
		t.Fatalf("ForDurationWithChannel: %v", err)
	}
	close(ch)
	<-done

	if count == 0 {
		t.Fatal("expected at least one published state")
	}
	// No step exceeds MaxStep, so 5 minutes takes at least 10 accepted steps.
	if minSteps := int(5 * time.Minute / opts.MaxStep); count < minSteps {
		t.Fatalf("expected at least %d published states, got %d", minSteps, count)
	}
}
