// Package trajectory turns a stream of accepted propagation states into an
// ordered, queryable sequence of interpolated segments, grounded on
// original_source's for_duration_with_traj pipeline (producer/bucketer/
// worker-pool) and spec.md §4.4.
package trajectory

import (
	"sort"
	"time"

	"github.com/voyagerops/astrocore"
)

// Trajectory is an ordered, non-overlapping map of Hermite segments. The
// first segment begins at the propagation's start epoch; segments are
// contiguous because consecutive Builder buckets share their boundary
// sample.
type Trajectory struct {
	segments []*Segment // sorted by Start
}

// Start returns the epoch of the first segment.
func (tr *Trajectory) Start() time.Time {
	if len(tr.segments) == 0 {
		return time.Time{}
	}
	return tr.segments[0].Start
}

// End returns the epoch at which coverage ends.
func (tr *Trajectory) End() time.Time {
	if len(tr.segments) == 0 {
		return time.Time{}
	}
	last := tr.segments[len(tr.segments)-1]
	return last.Start.Add(last.Span)
}

// append inserts a segment, keeping the map ordered by start epoch.
// Segments may arrive in any order. Gaps or overlaps between segments are
// not checked here.
func (tr *Trajectory) append(seg *Segment) {
	tr.segments = append(tr.segments, seg)
	sort.Slice(tr.segments, func(i, j int) bool {
		return tr.segments[i].Start.Before(tr.segments[j].Start)
	})
}

// EvaluateState returns the interpolated state vector at epoch t. It fails
// with astrocore.ErrOutOfBounds if t falls outside [Start(), End()].
func (tr *Trajectory) EvaluateState(t time.Time) ([]float64, error) {
	if len(tr.segments) == 0 || t.Before(tr.Start()) || t.After(tr.End()) {
		return nil, astrocore.NewErrorf(astrocore.ErrOutOfBounds, "epoch %s outside trajectory coverage [%s, %s]", t, tr.Start(), tr.End())
	}
	for _, seg := range tr.segments {
		if seg.Covers(t) {
			return seg.Evaluate(t), nil
		}
	}
	return nil, astrocore.NewErrorf(astrocore.ErrOutOfBounds, "epoch %s not covered by any segment", t)
}

// NumSegments reports how many spline segments the trajectory holds.
func (tr *Trajectory) NumSegments() int {
	return len(tr.segments)
}
