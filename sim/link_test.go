package sim

import (
	"math"
	"testing"
)

// Noise-free estimator: RSSI must be the pure log-distance curve.
func TestLinkEstimator_PathLossCurve(t *testing.T) {
	est := NewLinkEstimatorParams(20.0, 2.5, 1.0, 0, 1)

	cases := []struct {
		distM float64
		want  float64
	}{
		{1.0, 20.0},
		{10.0, -5.0},   // 20 - 25*log10(10)
		{100.0, -30.0}, // 20 - 25*log10(100)
	}
	for _, tc := range cases {
		got := est.RSSI(tc.distM)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("RSSI(%g) = %g, want %g", tc.distM, got, tc.want)
		}
	}
}

func TestLinkEstimator_ClampsBelowReferenceDistance(t *testing.T) {
	est := NewLinkEstimatorParams(20.0, 2.5, 1.0, 0, 1)
	if got := est.RSSI(0.1); got != 20.0 {
		t.Errorf("expected clamp to reference distance, got %g", got)
	}
	if got := est.RSSI(0); got != 20.0 {
		t.Errorf("zero distance must clamp, got %g", got)
	}
}

func TestLinkEstimator_MeanRSSIIsNoiseFree(t *testing.T) {
	est := NewLinkEstimator(7)
	want := 20.0 - 25.0*math.Log10(10.0)
	for i := 0; i < 5; i++ {
		if got := est.MeanRSSI(10.0); math.Abs(got-want) > 1e-9 {
			t.Errorf("MeanRSSI draw %d = %g, want %g", i, got, want)
		}
	}
}

func TestLinkEstimator_ShadowingIsSeededAndBounded(t *testing.T) {
	a := NewLinkEstimator(7)
	b := NewLinkEstimator(7)

	for i := 0; i < 100; i++ {
		ra, rb := a.RSSI(50.0), b.RSSI(50.0)
		if ra != rb {
			t.Fatalf("draw %d: same seed diverged: %g vs %g", i, ra, rb)
		}
		// 1 dB sigma: a 10 dB excursion from the mean would be absurd.
		if math.Abs(ra-a.MeanRSSI(50.0)) > 10.0 {
			t.Fatalf("draw %d: shadowing excursion too large: %g", i, ra)
		}
	}
}

func TestLinkEstimator_MonotoneInDistance(t *testing.T) {
	est := NewLinkEstimatorParams(20.0, 2.5, 1.0, 0, 1)
	prev := est.RSSI(1.0)
	for d := 2.0; d <= 200.0; d *= 2 {
		got := est.RSSI(d)
		if got >= prev {
			t.Errorf("RSSI must fall with distance: RSSI(%g)=%g >= %g", d, got, prev)
		}
		prev = got
	}
}
