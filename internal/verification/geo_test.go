package verification

import (
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	t.Parallel()

	if got := HaversineMeters(40.0, -74.0, 40.0, -74.0); got != 0 {
		t.Fatalf("same point distance: got=%v want=0", got)
	}

	// One degree of latitude is ~111.2km everywhere.
	got := HaversineMeters(0, 0, 1, 0)
	if math.Abs(got-111195) > 500 {
		t.Fatalf("one degree latitude: got=%v want~111195", got)
	}

	// Symmetry.
	if a, b := HaversineMeters(40, -74, 41, -73), HaversineMeters(41, -73, 40, -74); math.Abs(a-b) > 1e-6 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}
