package scoring

import "testing"

func TestNextMindStaysInRange(t *testing.T) {
	for mind := 0; mind <= 100; mind++ {
		for intensity := 1; intensity <= 10; intensity++ {
			got := NextMind(mind, intensity)
			if got < 0 || got > 100 {
				t.Fatalf("NextMind(%d, %d) out of range: %d", mind, intensity, got)
			}
		}
	}
}

func TestNextMindFromEmptyBaseline(t *testing.T) {
	// First observation: round(0*0.9 + intensity*10*0.1) = intensity.
	for intensity := 1; intensity <= 10; intensity++ {
		if got := NextMind(0, intensity); got != intensity {
			t.Fatalf("NextMind(0, %d) = %d, want %d", intensity, got, intensity)
		}
	}
}

func TestNextMindContractsTowardTarget(t *testing.T) {
	// Repeated application with a fixed intensity moves monotonically
	// toward intensity*10 and settles without oscillating. Integer
	// rounding stalls the contraction once the remaining pull per step
	// drops under half a point, so the settled value sits within the
	// rounding band around the target rather than on it exactly.
	for intensity := 1; intensity <= 10; intensity++ {
		target := intensity * 10
		for _, start := range []int{0, 25, 50, 75, 100} {
			mind := start
			prevDistance := abs(mind - target)
			for step := 0; step < 200; step++ {
				mind = NextMind(mind, intensity)
				distance := abs(mind - target)
				if distance > prevDistance {
					t.Fatalf("divergence from start=%d intensity=%d at step %d: distance %d -> %d",
						start, intensity, step, prevDistance, distance)
				}
				prevDistance = distance
			}
			if abs(mind-target) >= 5 {
				t.Fatalf("no convergence from start=%d intensity=%d: got %d, want within 4 of %d",
					start, intensity, mind, target)
			}
			if settled := NextMind(mind, intensity); settled != mind {
				t.Fatalf("not a fixed point after 200 steps from start=%d intensity=%d: %d -> %d",
					start, intensity, mind, settled)
			}
		}
	}
}

func TestNextMindSmoothsSingleObservation(t *testing.T) {
	// One noisy message should only nudge an established score.
	if got := NextMind(80, 1); got != 73 {
		t.Fatalf("NextMind(80, 1) = %d, want 73", got)
	}
	if got := NextMind(20, 10); got != 28 {
		t.Fatalf("NextMind(20, 10) = %d, want 28", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		mind int
		want int
	}{
		{0, 60},
		{9, 64}, // round(3.6 + 60)
		{50, 80},
		{100, 100},
	}
	for _, tt := range tests {
		if got := Overall(tt.mind); got != tt.want {
			t.Fatalf("Overall(%d) = %d, want %d", tt.mind, got, tt.want)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
