package bplane

import (
	"math"

	kitlog "github.com/go-kit/kit/log"

	"github.com/voyagerops/astrocore"
)

const maxNewtonIter = 10

// KindOutcome records, for one search_kind attempt, whether it converged
// and what it produced. [SUPPLEMENTED]: the spec names the search_kind
// outer loop but not a per-kind report; this is added so callers (and
// tests) can inspect why a particular reduced search was abandoned rather
// than only seeing the final best-of-all-kinds Δv.
type KindOutcome struct {
	Attempted bool
	Converged bool
	DeltaV    [3]float64
	LTOFSec   float64
	Err       error
}

// Result is the outcome of Achieve: the best velocity correction observed
// across every attempted search_kind, plus its LTOF and a per-kind report.
type Result struct {
	DeltaV   [3]float64
	LTOFSec  float64
	Outcomes [4]KindOutcome
}

// Achieve computes the Δv (km/s) that drives orbit to target's B-Plane
// aim point, optionally honoring an LTOF constraint, per spec.md §4.6's
// search_kind outer loop and Newton inner loop (grounded on
// original_source's achieve_b_plane).
func Achieve(orbit *astrocore.Orbit, target Target, logger kitlog.Logger) (Result, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	minTotalDv := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	minLTOF := target.LTOFSec

	startKind := 0
	if target.LTOFArmed() {
		startKind = 3
	}

	var result Result

	for kind := startKind; kind <= 3; kind++ {
		outcome := runSearchKind(orbit, target, kind, startKind, logger)
		result.Outcomes[kind] = outcome

		if outcome.Err != nil && startKind == 3 {
			return result, outcome.Err
		}

		if outcome.Err == nil && norm3(outcome.DeltaV) < norm3(minTotalDv) {
			minTotalDv = outcome.DeltaV
			minLTOF = outcome.LTOFSec
			logger.Log("level", "debug", "subsys", "bplane", "msg", "new best", "dv_norm", norm3(minTotalDv), "ltof_s", minLTOF)
		}

		if kind == 2 {
			target.LTOFSec = minLTOF
		}
	}

	result.DeltaV = minTotalDv
	result.LTOFSec = minLTOF
	return result, nil
}

// runSearchKind runs the Newton inner loop for one search_kind, returning
// its outcome. Divergence and the iteration limit set Err only when
// startKind==3; for kinds started from 0 they end the search without an
// error. Failures to build the B-Plane or invert its Jacobian set Err for
// any kind. Achieve propagates Err only when startKind==3.
func runSearchKind(orbit *astrocore.Orbit, target Target, kind, startKind int, logger kitlog.Logger) KindOutcome {
	outcome := KindOutcome{Attempted: true}

	r := append([]float64(nil), orbit.R()...)
	v := append([]float64(nil), orbit.V()...)
	totalDv := [3]float64{}
	ltofSec := math.Inf(1)
	prevErrNorm := math.Inf(1)

	for attempt := 0; attempt <= maxNewtonIter; attempt++ {
		if attempt == maxNewtonIter {
			if startKind == 3 {
				outcome.Err = astrocore.NewError(astrocore.ErrMaxIterReached, "B-Plane Newton search did not converge")
				return outcome
			}
			break
		}

		cur := astrocore.NewOrbitFromRV(r, v, orbit.Origin, orbit.Epoch())
		plane, err := New(cur)
		if err != nil {
			outcome.Err = err
			return outcome
		}

		btErr := target.BTKm - plane.BDotT()
		brErr := target.BRKm - plane.BDotR()
		var ltofErr float64
		if kind == 3 {
			ltofErr = target.LTOFSec - plane.LTOF.Real
		}

		if math.Abs(brErr) < target.TolBRKm && math.Abs(btErr) < target.TolBTKm && math.Abs(ltofErr) < target.TolLTOFSec {
			ltofSec = plane.LTOF.Real
			outcome.Converged = true
			break
		}

		if kind == 3 {
			errNorm := math.Sqrt(btErr*btErr + brErr*brErr + ltofErr*ltofErr)
			if errNorm >= prevErrNorm {
				if startKind == 3 {
					outcome.Err = astrocore.NewError(astrocore.ErrCorrectionIneffective, "LTOF-enabled correction is failing; try without an LTOF target")
					return outcome
				}
				break
			}
			prevErrNorm = errNorm

			jac, err := plane.Jacobian()
			if err != nil {
				outcome.Err = err
				return outcome
			}
			dv := applyMat3(jac, btErr, brErr, ltofErr)
			logger.Log("level", "debug", "subsys", "bplane", "msg", "newton step", "kind", kind, "err_norm", errNorm, "dv", dv)
			totalDv[0] += dv[0]
			totalDv[1] += dv[1]
			totalDv[2] += dv[2]
			v[0] += dv[0]
			v[1] += dv[1]
			v[2] += dv[2]
		} else {
			invariant := Invariant(kind)
			jac2, err := plane.Jacobian2(invariant)
			if err != nil {
				outcome.Err = err
				return outcome
			}
			dv := applyMat2(jac2, btErr, brErr)
			logger.Log("level", "debug", "subsys", "bplane", "msg", "newton step 2x2", "kind", kind, "dv", dv)
			switch invariant {
			case VX:
				totalDv[1] += dv[0]
				totalDv[2] += dv[1]
				v[1] += dv[0]
				v[2] += dv[1]
			case VY:
				totalDv[0] += dv[0]
				totalDv[2] += dv[1]
				v[0] += dv[0]
				v[2] += dv[1]
			case VZ:
				totalDv[0] += dv[0]
				totalDv[1] += dv[1]
				v[0] += dv[0]
				v[1] += dv[1]
			}
		}
	}

	outcome.DeltaV = totalDv
	outcome.LTOFSec = ltofSec
	return outcome
}

func applyMat3(m interface {
	At(i, j int) float64
}, bt, br, ltof float64) [3]float64 {
	return [3]float64{
		m.At(0, 0)*bt + m.At(0, 1)*br + m.At(0, 2)*ltof,
		m.At(1, 0)*bt + m.At(1, 1)*br + m.At(1, 2)*ltof,
		m.At(2, 0)*bt + m.At(2, 1)*br + m.At(2, 2)*ltof,
	}
}

func applyMat2(m interface {
	At(i, j int) float64
}, bt, br float64) [2]float64 {
	return [2]float64{
		m.At(0, 0)*bt + m.At(0, 1)*br,
		m.At(1, 0)*bt + m.At(1, 1)*br,
	}
}

func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
