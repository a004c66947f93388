package astrocore

import "testing"

func TestBuiltinGroundStations(t *testing.T) {
	for _, name := range []string{"dss13", "dss34", "dss65"} {
		if _, err := BuiltinGroundStation(name); err != nil {
			t.Errorf("BuiltinGroundStation(%q): %v", name, err)
		}
	}
	if _, err := BuiltinGroundStation("nope"); err == nil {
		t.Error("expected error for unknown station")
	}
}

func TestGroundStationVisibility(t *testing.T) {
	s := DSS34Canberra
	// A point directly overhead the station (same lat/long, large radius)
	// must be visible; a point on the opposite side of the Earth must not.
	overhead := GEO2ECEF(500, s.LatΦ, s.Longθ)
	if !s.Visible(overhead, 0) {
		t.Error("point overhead the station should be visible")
	}
	oppositeLongθ := s.Longθ + 3.141592653589793
	antipode := GEO2ECEF(500, -s.LatΦ, oppositeLongθ)
	if s.Visible(antipode, 0) {
		t.Error("antipodal point should not be visible")
	}
}
