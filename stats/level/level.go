// Package level provides loudness metering for float32 audio frames.
package level

import (
	"math"

	"github.com/cwbudde/algo-dagc/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Stats holds level statistics of a signal.
//
//nolint:revive
type Stats struct {
	Length         int
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	Energy         float64 // sum of squares
	Power          float64 // energy / length
	Power_dB       float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
}

func emptyStats() Stats {
	return Stats{
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		Power_dB:       math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
}

func newStats(n int, energy, peak float64) Stats {
	if n == 0 {
		return emptyStats()
	}

	power := energy / float64(n)
	rms := math.Sqrt(power)

	var crest, crestdB float64
	if rms > 0 {
		crest = peak / rms
		crestdB = core.LinearToDB(crest)
	}

	return Stats{
		Length:         n,
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Peak:           peak,
		Peak_dB:        core.LinearToDB(peak),
		Energy:         energy,
		Power:          power,
		Power_dB:       core.LinearPowerToDB(power),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
	}
}

// Calculate computes level statistics of frame.
func Calculate(frame []float32) Stats {
	m := Meter{}
	m.Update(frame)
	return m.Result()
}

// FrameRMS returns the root-mean-square of frame, or 0 for an empty frame.
func FrameRMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range frame {
		v := float64(x)
		sumSq += v * v
	}

	return math.Sqrt(sumSq / float64(len(frame)))
}

// FramePeak returns the largest absolute sample value of frame.
func FramePeak(frame []float32) float64 {
	var peak float64
	for _, x := range frame {
		a := math.Abs(float64(x))
		if a > peak {
			peak = a
		}
	}

	return peak
}

// Meter accumulates level statistics across consecutive frames.
// It keeps a scratch buffer and allocates only when a larger frame arrives.
type Meter struct {
	n       int
	energy  float64
	peak    float64
	widened []float64
	squares []float64
}

// NewMeter creates a meter sized for frames of frameSize samples.
func NewMeter(frameSize int) *Meter {
	return &Meter{
		widened: make([]float64, 0, frameSize),
		squares: make([]float64, 0, frameSize),
	}
}

// Update adds a frame to the running statistics.
func (m *Meter) Update(frame []float32) {
	if len(frame) == 0 {
		return
	}

	m.widened = core.Widen(m.widened, frame)
	m.squares = core.EnsureLen(m.squares, len(frame))
	vecmath.MulBlock(m.squares, m.widened, m.widened)

	for i, sq := range m.squares {
		m.energy += sq
		if a := math.Abs(m.widened[i]); a > m.peak {
			m.peak = a
		}
	}

	m.n += len(frame)
}

// Result returns statistics over every sample seen since the last Reset.
func (m *Meter) Result() Stats {
	return newStats(m.n, m.energy, m.peak)
}

// Reset clears the accumulated statistics.
func (m *Meter) Reset() {
	m.n = 0
	m.energy = 0
	m.peak = 0
}
