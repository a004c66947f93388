package integrator

import (
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"

	"github.com/voyagerops/astrocore"
)

// logInfoThreshold is the duration beyond which ForDuration logs an
// informational message before propagating (spec.md §4.3): shorter
// durations are silent to avoid log storms during measurement synthesis.
const logInfoThreshold = 2 * time.Minute

// backwardEpsilon is the threshold (in time.Duration) below which a
// requested delta is treated as non-negative, avoiding sign flapping from
// floating point epoch arithmetic.
const backwardEpsilon = time.Nanosecond

// Driver advances an Instance for a duration or until an epoch, optionally
// publishing every accepted state on a channel. It owns no goroutines of
// its own; trajectory.Builder runs ForDurationWithChannel on a producer
// goroutine it spawns and consumes the published states.
type Driver struct {
	Instance *Instance
	Logger   kitlog.Logger
}

// NewDriver wraps an Instance with a logger; a nil logger is replaced with
// a no-op logger.
func NewDriver(in *Instance, logger kitlog.Logger) *Driver {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Driver{Instance: in, Logger: logger}
}

// ForDuration advances the state by Δ and returns the final state. Δ=0
// returns the current state unchanged, bitwise.
func (d *Driver) ForDuration(delta time.Duration) (astrocore.State, error) {
	return d.ForDurationWithChannel(delta, nil)
}

// ForDurationWithChannel is ForDuration, additionally publishing every
// accepted state (including the final truncated step) on publish, if
// non-nil. Each send blocks until the receiver takes the state. A send on a
// closed channel is recovered, logged as a warning, and does not abort
// propagation.
func (d *Driver) ForDurationWithChannel(delta time.Duration, publish chan<- astrocore.State) (astrocore.State, error) {
	if delta == 0 {
		return d.Instance.State, nil
	}

	absDelta := delta
	if absDelta < 0 {
		absDelta = -absDelta
	}
	if absDelta > logInfoThreshold {
		d.Logger.Log("level", "info", "subsys", "integrator", "msg", "propagating", "delta", delta.String())
	}

	backward := delta < -backwardEpsilon
	if backward {
		d.Instance.SetStepSize(-math.Abs(d.Instance.StepSize()))
	} else {
		d.Instance.SetStepSize(math.Abs(d.Instance.StepSize()))
	}
	defer func() {
		// Restore a positive convention for reuse, matching the teacher's
		// instance.rs step-size negate-on-entry/restore-on-exit pattern.
		d.Instance.SetStepSize(math.Abs(d.Instance.StepSize()))
	}()

	stopEpoch := d.Instance.State.Epoch().Add(delta)

	if f, err := d.Instance.Dynamics.Finalize(d.Instance.State); err != nil {
		return nil, err
	} else if f != nil {
		d.Instance.State = f
	}

	for {
		remaining := stopEpoch.Sub(d.Instance.State.Epoch())
		if remaining == 0 {
			break
		}
		absRemaining := remaining
		if absRemaining < 0 {
			absRemaining = -absRemaining
		}
		curStep := secondsToDuration(d.Instance.StepSize())
		if curStep < 0 {
			curStep = -curStep
		}
		if absRemaining <= curStep {
			// Exact-remainder terminal step so the final state lands
			// precisely on stopEpoch.
			d.Instance.SetStepSize(remaining.Seconds())
			fixed := d.Instance.Opts.FixedStep
			d.Instance.Opts.FixedStep = true
			err := d.Instance.Step()
			d.Instance.Opts.FixedStep = fixed
			if err != nil {
				return nil, err
			}
			d.publish(publish)
			break
		}
		if err := d.Instance.Step(); err != nil {
			return nil, err
		}
		d.publish(publish)
	}
	return d.Instance.State, nil
}

// UntilEpoch advances the state until epoch t, equivalent to
// ForDuration(t.Sub(state.Epoch())).
func (d *Driver) UntilEpoch(t time.Time) (astrocore.State, error) {
	return d.ForDuration(t.Sub(d.Instance.State.Epoch()))
}

// UntilEpochWithChannel is UntilEpoch, publishing every accepted state.
func (d *Driver) UntilEpochWithChannel(t time.Time, publish chan<- astrocore.State) (astrocore.State, error) {
	return d.ForDurationWithChannel(t.Sub(d.Instance.State.Epoch()), publish)
}

func (d *Driver) publish(publish chan<- astrocore.State) {
	if publish == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Log("level", "warn", "subsys", "integrator", "msg", "send on closed channel", "recover", r)
		}
	}()
	publish <- d.Instance.State
}
