package trajectory

import (
	"time"

	"github.com/voyagerops/astrocore"
)

// EventEvaluator reduces a state vector to a real-valued predicate whose
// zero-crossings delimit an event, per spec.md §6's event predicate
// contract. It is evaluated at every spline segment boundary and,
// bisection-free, at a fixed sampling cadence within each segment.
type EventEvaluator interface {
	Value(epoch time.Time, y []float64) float64
}

// EventEvaluatorFunc adapts a plain function to EventEvaluator.
type EventEvaluatorFunc func(epoch time.Time, y []float64) float64

// Value implements EventEvaluator.
func (f EventEvaluatorFunc) Value(epoch time.Time, y []float64) float64 {
	return f(epoch, y)
}

// eventSamplesPerSegment bounds the scan resolution within one spline
// segment: spec.md §4.4 calls this "simple predicate scans", not smooth
// event-crossing refinement (an explicit non-goal), so a fixed sample
// count rather than a root-finder is used.
const eventSamplesPerSegment = 32

// UntilEvent scans the trajectory for the first sign change of eval and
// returns the epoch and interpolated state at that crossing. It is
// UntilNthEvent(eval, 0).
func (tr *Trajectory) UntilEvent(eval EventEvaluator) (time.Time, []float64, error) {
	return tr.UntilNthEvent(eval, 0)
}

// UntilNthEvent scans the trajectory for sign changes of eval and returns
// the (n+1)-th one found, per spec.md §4.4's until_event/until_nth_event.
// It fails with astrocore.ErrInsufficientTriggers if fewer than n+1
// crossings are found across the trajectory's full coverage.
func (tr *Trajectory) UntilNthEvent(eval EventEvaluator, n int) (time.Time, []float64, error) {
	if len(tr.segments) == 0 {
		return time.Time{}, nil, astrocore.NewError(astrocore.ErrInsufficientTriggers, "empty trajectory")
	}

	found := 0
	var prevEpoch time.Time
	var prevVal float64
	havePrev := false

	for _, seg := range tr.segments {
		step := seg.Span / eventSamplesPerSegment
		if step <= 0 {
			step = seg.Span
		}
		for t := seg.Start; !t.After(seg.Start.Add(seg.Span)); t = t.Add(step) {
			y := seg.Evaluate(t)
			v := eval.Value(t, y)
			if havePrev && sign(prevVal) != sign(v) && prevVal != 0 {
				if found == n {
					crossEpoch, crossY := interpolateCrossing(prevEpoch, prevVal, t, v, seg)
					return crossEpoch, crossY, nil
				}
				found++
			}
			prevEpoch, prevVal, havePrev = t, v, true
			if step == seg.Span {
				break
			}
		}
	}
	return time.Time{}, nil, astrocore.NewErrorf(astrocore.ErrInsufficientTriggers, "found %d crossings, need %d", found, n+1)
}

// interpolateCrossing linearly interpolates the crossing epoch between two
// bracketing samples and evaluates the segment's spline there.
func interpolateCrossing(t0 time.Time, v0 float64, t1 time.Time, v1 float64, seg *Segment) (time.Time, []float64) {
	span := t1.Sub(t0).Seconds()
	if span == 0 || v1 == v0 {
		return t1, seg.Evaluate(t1)
	}
	frac := -v0 / (v1 - v0)
	crossEpoch := t0.Add(time.Duration(frac * span * float64(time.Second)))
	if crossEpoch.Before(seg.Start) {
		crossEpoch = seg.Start
	}
	if crossEpoch.After(seg.Start.Add(seg.Span)) {
		crossEpoch = seg.Start.Add(seg.Span)
	}
	return crossEpoch, seg.Evaluate(crossEpoch)
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
