package trajectory

import (
	"runtime"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/integrator"
)

// interpolationSamples is P, the interpolation-sample count per spline
// segment (spec.md §4.4: "typically 8-12 sample points per spline
// segment"); fixed at the midpoint of that range.
const interpolationSamples = 10

// Builder assembles a Trajectory from a propagation run using three
// concurrency roles grounded on original_source's for_duration_with_traj:
// a producer goroutine running the integrator driver, a bucketer, and a
// bounded worker pool fitting Hermite splines in parallel. The caller's
// goroutine receives every published state over an unbuffered
// single-producer/single-consumer channel and keeps them all. Bucketing
// starts only after the producer has finished: the bucketer runs on its
// own goroutine over the collected samples and fans the buckets out to
// Workers fitting goroutines.
type Builder struct {
	Opts    integrator.Options
	Workers int
	Logger  kitlog.Logger
}

// NewBuilder returns a Builder with Workers defaulting to
// runtime.GOMAXPROCS(0) and a no-op logger.
func NewBuilder(opts integrator.Options) *Builder {
	return &Builder{
		Opts:    opts,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  kitlog.NewNopLogger(),
	}
}

func (b *Builder) logger() kitlog.Logger {
	if b.Logger == nil {
		return kitlog.NewNopLogger()
	}
	return b.Logger
}

func (b *Builder) workers() int {
	if b.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return b.Workers
}

// BuildWithTraj drives state forward by delta and returns the interpolated
// Trajectory alongside the final state, per spec.md §4.4. Backward
// trajectories (delta < 0) are a documented limitation of this pipeline
// (spec.md §9): it returns astrocore.ErrOutOfBounds immediately rather
// than silently producing an invalid segment order.
func (b *Builder) BuildWithTraj(state astrocore.State, dyn astrocore.Dynamics, delta time.Duration) (*Trajectory, astrocore.State, error) {
	if delta < 0 {
		return nil, nil, astrocore.NewError(astrocore.ErrOutOfBounds, "trajectory builder is forward-only; reverse-sort segments yourself for backward runs")
	}
	if delta == 0 {
		return nil, state, nil
	}

	startY, startEpoch := state.AsVector(), state.Epoch()
	samples, final, err := b.collect(state, dyn, delta, b.Opts)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) < interpolationSamples {
		b.logger().Log("level", "debug", "subsys", "trajectory", "msg", "short-run fallback", "got", len(samples), "want", interpolationSamples)
		fixed := b.Opts
		fixed.FixedStep = true
		fixedStep := delta.Seconds() / float64(interpolationSamples-1)
		fixed.MaxStep = secondsToDuration(fixedStep)
		fixed.MinStep = secondsToDuration(fixedStep)
		state.SetVector(startY, startEpoch)
		samples, final, err = b.collect(state, dyn, delta, fixed)
		if err != nil {
			return nil, nil, err
		}
	}

	tr := b.bucketAndFit(samples)
	return tr, final, nil
}

// BuildUntilEpoch is BuildWithTraj for a target epoch rather than a delta.
func (b *Builder) BuildUntilEpoch(state astrocore.State, dyn astrocore.Dynamics, epoch time.Time) (*Trajectory, astrocore.State, error) {
	return b.BuildWithTraj(state, dyn, epoch.Sub(state.Epoch()))
}

// collect runs the producer (driver) on its own goroutine and receives its
// states on the caller's goroutine, returning every accepted Sample
// (state + derivative) and the final propagated state.
func (b *Builder) collect(state astrocore.State, dyn astrocore.Dynamics, delta time.Duration, opts integrator.Options) ([]Sample, astrocore.State, error) {
	startEpoch := state.Epoch()
	startY := state.AsVector()
	startDot, err := dyn.EOM(0, startY)
	if err != nil {
		return nil, nil, err
	}

	in := integrator.New(state, dyn, opts)
	driver := integrator.NewDriver(in, b.logger())

	statesCh := make(chan astrocore.State)
	errCh := make(chan error, 1)

	go func() {
		defer close(statesCh)
		final, err := driver.ForDurationWithChannel(delta, statesCh)
		if err != nil {
			errCh <- err
			return
		}
		errCh <- nil
		_ = final
	}()

	samples := []Sample{{Epoch: startEpoch, Y: startY, Dot: startDot}}
	for s := range statesCh {
		y := s.AsVector()
		tRel := s.Epoch().Sub(startEpoch).Seconds()
		dot, err := dyn.EOM(tRel, y)
		if err != nil {
			return nil, nil, err
		}
		samples = append(samples, Sample{Epoch: s.Epoch(), Y: y, Dot: dot})
	}
	if err := <-errCh; err != nil {
		return nil, nil, err
	}
	return samples, in.State, nil
}

// bucketAndFit implements spec.md §4.4 steps 2-6: slide a window of
// capacity 2P, publish buckets of size P with one overlap element
// retained, fan the buckets out to a bounded worker pool for Hermite
// fitting, and assemble the ordered segment map.
func (b *Builder) bucketAndFit(samples []Sample) *Trajectory {
	const p = interpolationSamples
	tr := &Trajectory{}

	bucketsCh := make(chan []Sample)
	segCh := make(chan *Segment, b.workers())
	var wg sync.WaitGroup
	for i := 0; i < b.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bucket := range bucketsCh {
				segCh <- fitHermiteSegment(bucket)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(segCh)
	}()

	go func() {
		defer close(bucketsCh)
		var window []Sample
		window = append(window, samples[0])
		for _, s := range samples[1:] {
			window = append(window, s)
			if len(window) == 2*p {
				bucket := append([]Sample(nil), window[:p]...)
				bucketsCh <- bucket
				window = append([]Sample(nil), window[p-1:]...)
			}
		}
		if len(window) >= 2 {
			bucketsCh <- append([]Sample(nil), window...)
		}
	}()

	for seg := range segCh {
		tr.append(seg)
	}
	return tr
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
