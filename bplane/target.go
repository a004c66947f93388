package bplane

import "time"

// Target names a desired B-Plane aim point, optionally constrained by a
// linearized time of flight, grounded on original_source's BPlaneTarget.
type Target struct {
	BTKm, BRKm float64
	LTOFSec    float64

	TolBTKm    float64
	TolBRKm    float64
	TolLTOFSec float64
}

// FromTargets builds a Target with a B-Plane aim point and an armed LTOF
// constraint. Default tolerances: 1e-6 km on B_T/B_R, 6 hours on LTOF.
func FromTargets(btKm, brKm float64, ltof time.Duration) Target {
	return Target{
		BTKm:       btKm,
		BRKm:       brKm,
		LTOFSec:    ltof.Seconds(),
		TolBTKm:    1e-6,
		TolBRKm:    1e-6,
		TolLTOFSec: (6 * time.Hour).Seconds(),
	}
}

// FromBPlane builds a Target with only a B-Plane aim point; LTOF is
// unconstrained (effectively, since the tolerance is 100 days).
func FromBPlane(btKm, brKm float64) Target {
	return Target{
		BTKm:       btKm,
		BRKm:       brKm,
		LTOFSec:    0,
		TolBTKm:    1e-6,
		TolBRKm:    1e-6,
		TolLTOFSec: (100 * 24 * time.Hour).Seconds(),
	}
}

// LTOFArmed reports whether the LTOF target is considered set, per
// spec.md §4.6: |LTOF*| > 1e-10 seconds.
func (t Target) LTOFArmed() bool {
	return abs(t.LTOFSec) > 1e-10
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
