package frame_test

import (
	"testing"
	"time"

	"github.com/voyagerops/astrocore"
	"github.com/voyagerops/astrocore/frame"
)

func TestChangeFrameSunEarthRoundTrip(t *testing.T) {
	m := frame.Meeus{}
	dt := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	orbit, err := m.ChangeFrame(astrocore.Sun, astrocore.Earth, dt)
	if err != nil {
		t.Fatalf("ChangeFrame: %v", err)
	}
	r := orbit.RNorm()
	if r < 1.4e8 || r > 1.6e8 {
		t.Fatalf("Earth heliocentric radius %g km out of plausible range", r)
	}
}

func TestChangeFrameRejectsUnsupportedPair(t *testing.T) {
	m := frame.Meeus{}
	_, err := m.ChangeFrame(astrocore.Earth, astrocore.Mars, time.Now())
	if err == nil {
		t.Fatal("expected error for unsupported body pair")
	}
}
