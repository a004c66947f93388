package astrocore

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// GroundStation is a minimal ground-station fixture: identity, ECEF
// position/velocity and elevation mask, plus the noise distributions used
// to synthesize range/range-rate measurements in integration tests. Full
// measurement-synthesis (H-tilde partials, CSV export) is external to this
// module per its scope — see the Dynamics/FrameProvider contracts in
// state.go — so this type only carries enough to compute visibility and a
// noisy range/range-rate pair.
type GroundStation struct {
	Name                       string
	R, V                       []float64 // ECEF position/velocity, km, km/s
	LatΦ, Longθ                float64   // radians
	Altitude, ElevationMask    float64   // km, degrees
	RangeNoise, RangeRateNoise *distmv.Normal
}

// Builtin reference stations (DSS-13/34/65), matching the stock
// three-station configuration named in the toolkit's test scenarios.
var (
	DSS34Canberra  = NewGroundStation("DSS34Canberra", 0.691750, 0, -35.398333, 148.981944, sigmaRange, sigmaRangeRate)
	DSS65Madrid    = NewGroundStation("DSS65Madrid", 0.834939, 0, 40.427222, 4.250556, sigmaRange, sigmaRangeRate)
	DSS13Goldstone = NewGroundStation("DSS13Goldstone", 1.07114904, 0, 35.247164, 243.205, sigmaRange, sigmaRangeRate)
)

var (
	sigmaRange     = math.Pow(5e-3, 2) // km
	sigmaRangeRate = math.Pow(5e-6, 2) // km/s
)

// NewGroundStation builds a ground station at the given altitude (km),
// elevation mask (degrees) and geodetic latitude/longitude (degrees).
func NewGroundStation(name string, altitude, elevationMask, latΦDeg, longθDeg, σρ, σρDot float64) GroundStation {
	latΦ := latΦDeg * deg2rad
	longθ := longθDeg * deg2rad
	R := GEO2ECEF(altitude, latΦ, longθ)
	V := Cross([]float64{0, 0, EarthRotationRate}, R)
	seed := rand.New(rand.NewSource(1))
	ρNoise, ok := distmv.NewNormal([]float64{0}, mat.NewSymDense(1, []float64{σρ}), seed)
	if !ok {
		panic("ground station range noise covariance is not positive definite")
	}
	ρDotNoise, ok := distmv.NewNormal([]float64{0}, mat.NewSymDense(1, []float64{σρDot}), seed)
	if !ok {
		panic("ground station range-rate noise covariance is not positive definite")
	}
	return GroundStation{
		Name: name, R: R, V: V, LatΦ: latΦ, Longθ: longθ,
		Altitude: altitude, ElevationMask: elevationMask,
		RangeNoise: ρNoise, RangeRateNoise: ρDotNoise,
	}
}

// RangeElAz returns the SEZ-frame range vector, and the range (km),
// elevation and azimuth (degrees) of a given ECEF position vector.
func (s GroundStation) RangeElAz(rECEF []float64) (ρSEZ []float64, ρ, el, az float64) {
	ρECEF := make([]float64, 3)
	for i := 0; i < 3; i++ {
		ρECEF[i] = rECEF[i] - s.R[i]
	}
	ρ = Norm(ρECEF)
	rSEZ := MxV33(R3(s.Longθ), ρECEF)
	rSEZ = MxV33(R2(math.Pi/2-s.LatΦ), rSEZ)
	el = math.Asin(rSEZ[2]/ρ) * rad2deg
	az = (2*math.Pi + math.Atan2(rSEZ[1], -rSEZ[0])) * rad2deg
	return rSEZ, ρ, el, az
}

// Visible reports whether the given ECI position is above the station's
// elevation mask at Greenwich sidereal angle θgst (radians).
func (s GroundStation) Visible(rECI []float64, θgst float64) bool {
	_, _, el, _ := s.RangeElAz(ECI2ECEF(rECI, θgst))
	return el >= s.ElevationMask
}

// RangeRange returns a noisy (range, range-rate) pair for the given ECI
// state at Greenwich sidereal angle θgst.
func (s GroundStation) RangeRange(rECI, vECI []float64, θgst float64) (ρNoisy, ρDotNoisy float64) {
	rECEF := ECI2ECEF(rECI, θgst)
	vECEF := ECI2ECEF(vECI, θgst)
	ρECEF, ρ, _, _ := s.RangeElAz(rECEF)
	vDiffECEF := make([]float64, 3)
	for i := 0; i < 3; i++ {
		vDiffECEF[i] = (vECEF[i] - s.V[i]) / ρ
	}
	ρDot := Dot(ρECEF, vDiffECEF)
	return ρ + s.RangeNoise.Rand(nil)[0], ρDot + s.RangeRateNoise.Rand(nil)[0]
}

func (s GroundStation) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f km; elevation mask = %f deg",
		s.Name, s.LatΦ*rad2deg, s.Longθ*rad2deg, s.Altitude, s.ElevationMask)
}

// BuiltinGroundStation looks up one of the stock stations by short name.
func BuiltinGroundStation(name string) (GroundStation, error) {
	switch strings.ToLower(name) {
	case "dss13":
		return DSS13Goldstone, nil
	case "dss34":
		return DSS34Canberra, nil
	case "dss65":
		return DSS65Madrid, nil
	default:
		return GroundStation{}, fmt.Errorf("unknown ground station %q", name)
	}
}
