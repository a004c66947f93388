package trajectory

import "time"

// Sample is one accepted propagation state, reduced to the vector of
// position/velocity components the spline needs plus the epoch it was
// produced at.
type Sample struct {
	Epoch time.Time
	Y     []float64 // state vector, length n
	Dot   []float64 // derivative at Epoch, length n (from Dynamics.EOM)
}

// Segment is a cubic Hermite spline fit over a contiguous bucket of
// samples, grounded on spec.md §4.4 step 6 ("Hermite fit using positions
// and derivatives"). It supports evaluation anywhere within
// [Start, Start+Span] by locating the bracketing sub-interval and applying
// the two-point Hermite basis.
type Segment struct {
	Start time.Time
	Span  time.Duration
	dim   int
	knots []time.Time // len == len(samples), ascending
	y     [][]float64 // position/velocity vector at each knot
	dy    [][]float64 // derivative at each knot
}

// fitHermiteSegment builds a Segment from a bucket of chronologically
// ordered samples. The bucket must contain at least two samples.
func fitHermiteSegment(samples []Sample) *Segment {
	n := len(samples)
	dim := len(samples[0].Y)
	seg := &Segment{
		Start: samples[0].Epoch,
		Span:  samples[n-1].Epoch.Sub(samples[0].Epoch),
		dim:   dim,
		knots: make([]time.Time, n),
		y:     make([][]float64, n),
		dy:    make([][]float64, n),
	}
	for i, s := range samples {
		seg.knots[i] = s.Epoch
		seg.y[i] = append([]float64(nil), s.Y...)
		seg.dy[i] = append([]float64(nil), s.Dot...)
	}
	return seg
}

// Covers reports whether t falls within this segment's closed interval.
func (s *Segment) Covers(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.Start.Add(s.Span))
}

// Evaluate returns the interpolated state vector at epoch t, which must
// satisfy Covers(t). It locates the bracketing pair of knots and applies
// the standard two-point cubic Hermite basis (h00, h10, h01, h11) per
// component.
func (s *Segment) Evaluate(t time.Time) []float64 {
	i := s.bracket(t)
	t0, t1 := s.knots[i], s.knots[i+1]
	h := t1.Sub(t0).Seconds()
	if h == 0 {
		return append([]float64(nil), s.y[i]...)
	}
	u := t.Sub(t0).Seconds() / h

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	out := make([]float64, s.dim)
	for c := 0; c < s.dim; c++ {
		out[c] = h00*s.y[i][c] + h10*h*s.dy[i][c] + h01*s.y[i+1][c] + h11*h*s.dy[i+1][c]
	}
	return out
}

func (s *Segment) bracket(t time.Time) int {
	for i := 0; i < len(s.knots)-1; i++ {
		if !t.Before(s.knots[i]) && !t.After(s.knots[i+1]) {
			return i
		}
	}
	// t at or beyond the final knot: clamp to the last sub-interval.
	return len(s.knots) - 2
}
