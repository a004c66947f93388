// Command astrocore is a thin demonstration CLI: it propagates a sample
// hyperbolic flyby orbit and runs a B-Plane targeting solve against it,
// wiring the same viper config loader and go-kit logger the rest of the
// module uses. Grounded on the teacher's cmd/planettgtr and cmd/mission
// wiring style (flag-driven, single-purpose main.go).
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/bplane"
	"github.com/voyagerops/astrocore/integrator"
)

var (
	propDuration = flag.Duration("duration", 6*time.Hour, "how long to propagate the sample orbit")
	targetBT     = flag.Float64("bt", 5000, "target B.T, km")
	targetBR     = flag.Float64("br", -3000, "target B.R, km")
)

func main() {
	flag.Parse()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	if _, err := astrocore.LoadConfig(); err != nil {
		logger.Log("level", "warn", "msg", "config load failed, using defaults", "err", err)
	}

	epoch := time.Now().UTC()
	orbit := astrocore.NewOrbitFromRV([]float64{-20000, 15000, 2000}, []float64{4, 5, 1}, astrocore.Earth, epoch)

	dyn := sampleDynamics{mu: astrocore.Earth.Mu}
	opts := integrator.DefaultOptions()
	in := integrator.New(orbit, dyn, opts)
	driver := integrator.NewDriver(in, logger)

	final, err := driver.ForDuration(*propDuration)
	if err != nil {
		logger.Log("level", "error", "msg", "propagation failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("propagated to %s: r=%v v=%v\n", final.Epoch(), final.(*astrocore.Orbit).R(), final.(*astrocore.Orbit).V())

	target := bplane.FromBPlane(*targetBT, *targetBR)
	result, err := bplane.Achieve(final.(*astrocore.Orbit), target, logger)
	if err != nil {
		logger.Log("level", "error", "msg", "B-Plane targeting failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("Δv = %v km/s, ltof = %.1fs\n", result.DeltaV, result.LTOFSec)
}

// sampleDynamics is the CLI's own minimal two-body Dynamics, independent
// of internal/twobody (which is test-only per its own doc comment).
type sampleDynamics struct {
	mu float64
}

func (d sampleDynamics) EOM(tRel float64, y []float64) ([]float64, error) {
	rx, ry, rz := y[0], y[1], y[2]
	vx, vy, vz := y[3], y[4], y[5]
	r2 := rx*rx + ry*ry + rz*rz
	r := math.Sqrt(r2)
	if r == 0 {
		return nil, astrocore.NewError(astrocore.ErrDynamicsFailure, "singular: zero radius")
	}
	factor := -d.mu / (r2 * r)
	return []float64{vx, vy, vz, factor * rx, factor * ry, factor * rz}, nil
}

func (d sampleDynamics) Finalize(s astrocore.State) (astrocore.State, error) {
	return s, nil
}
