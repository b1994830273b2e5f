package agc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dagc/internal/testutil"
)

// TestConvergence verifies output power settles at the target for sines that
// start well below and well above it.
func TestConvergence(t *testing.T) {
	const (
		sampleRate = 48000.0
		target     = 0.04
		frameSize  = 960
	)

	tests := []struct {
		name      string
		amplitude float64
	}{
		{"quiet input is amplified", 0.01},
		{"loud input is attenuated", 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(target, 0.001)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			signal := testutil.DeterministicSine(440, sampleRate, tt.amplitude, 5*int(sampleRate))
			for i := 0; i < len(signal); i += frameSize {
				a.Process(signal[i:min(i+frameSize, len(signal))])
			}

			testutil.RequireFinite(t, signal)

			tail := signal[len(signal)-int(sampleRate)/10:]
			got := testutil.RMS(tail)
			want := math.Sqrt(target)
			if math.Abs(got-want)/want > 0.05 {
				t.Errorf("output RMS = %v, want %v ±5%%", got, want)
			}
		})
	}
}

// TestConvergenceFrameSizeIndependent verifies output depends only on the
// sample sequence, not on how it is split into frames.
func TestConvergenceFrameSizeIndependent(t *testing.T) {
	signal := testutil.DeterministicNoise(7, 0.3, 4096)

	whole := append([]float32(nil), signal...)
	a, _ := New(0.01, 0.002)
	a.Process(whole)

	split := append([]float32(nil), signal...)
	b, _ := New(0.01, 0.002)
	rest := split
	for _, n := range []int{1, 7, 100, 1000, 2988} {
		b.Process(rest[:n])
		rest = rest[n:]
	}

	testutil.RequireSliceNearlyEqual(t, split, whole, 0)

	if a.Gain() != b.Gain() {
		t.Errorf("gain differs by framing: %v vs %v", a.Gain(), b.Gain())
	}
}
