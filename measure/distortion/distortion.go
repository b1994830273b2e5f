// Package distortion measures harmonic distortion of a processed tone.
//
// It is used to quantify the distortion a gain controller introduces by
// modulating its gain within a signal period.
package distortion

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dagc/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultMaxHarmonics = 10
	defaultCaptureBins  = 3
)

// ErrEmptySignal is returned when there is nothing to analyse.
var ErrEmptySignal = errors.New("distortion: empty signal")

// Config holds THD analysis parameters.
type Config struct {
	SampleRate float64
	// FundamentalHz is the expected tone frequency; 0 selects the
	// strongest non-DC bin.
	FundamentalHz float64
	MaxHarmonics  int
	// CaptureBins is the half-width, in bins, summed around each peak.
	CaptureBins int
}

// Result holds THD measurement results.
//
//nolint:revive
type Result struct {
	FundamentalHz    float64
	FundamentalLevel float64 // power captured around the fundamental
	THD              float64 // sqrt(harmonic power / fundamental power)
	THD_dB           float64
	Harmonics        []float64 // power of harmonics 2..N
}

func normalizeConfig(cfg Config) (Config, error) {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return cfg, fmt.Errorf("distortion: sample rate must be positive and finite: %f", cfg.SampleRate)
	}
	if cfg.FundamentalHz < 0 || cfg.FundamentalHz >= cfg.SampleRate/2 || math.IsNaN(cfg.FundamentalHz) {
		return cfg, fmt.Errorf("distortion: fundamental must be in [0, %f): %f", cfg.SampleRate/2, cfg.FundamentalHz)
	}
	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}
	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
	}
	return cfg, nil
}

// Analyze computes THD of signal. The signal is Hann-windowed and
// zero-padded to the next power of two before the FFT.
func Analyze(signal []float32, cfg Config) (Result, error) {
	if len(signal) < 2 {
		return Result{}, ErrEmptySignal
	}

	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return Result{}, err
	}

	power, err := powerSpectrum(signal)
	if err != nil {
		return Result{}, err
	}

	fftSize := 2 * (len(power) - 1)
	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := len(power) - 1

	fundamentalBin := findPeak(power, cfg, binHz)
	if fundamentalBin < 1 {
		return Result{}, fmt.Errorf("distortion: no fundamental found")
	}

	fundamental := bandPower(power, fundamentalBin, cfg.CaptureBins)

	f0 := cfg.FundamentalHz
	if f0 == 0 {
		f0 = float64(fundamentalBin) * binHz
	}

	res := Result{
		FundamentalHz:    f0,
		FundamentalLevel: fundamental,
	}

	var harmonicSum float64
	for h := 2; h <= cfg.MaxHarmonics; h++ {
		center := int(math.Round(float64(h) * f0 / binHz))
		if center+cfg.CaptureBins > maxBin {
			break
		}
		p := bandPower(power, center, cfg.CaptureBins)
		res.Harmonics = append(res.Harmonics, p)
		harmonicSum += p
	}

	if fundamental > 0 {
		res.THD = math.Sqrt(harmonicSum / fundamental)
	}
	res.THD_dB = core.LinearToDB(res.THD)

	return res, nil
}

// powerSpectrum returns |X[k]|^2 for bins 0..N/2 of the windowed signal.
func powerSpectrum(signal []float32) ([]float64, error) {
	n := len(signal)
	fftSize := nextPowerOf2(n)

	samples := core.Widen(nil, signal)
	vecmath.MulBlockInPlace(samples, hann(n))

	in := make([]complex128, fftSize)
	for i, v := range samples {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("distortion: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("distortion: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return power, nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func findPeak(power []float64, cfg Config, binHz float64) int {
	lo, hi := 1, len(power)-1
	if cfg.FundamentalHz > 0 {
		expected := int(math.Round(cfg.FundamentalHz / binHz))
		lo = max(1, expected-cfg.CaptureBins)
		hi = min(len(power)-1, expected+cfg.CaptureBins)
	}

	best := -1
	for k := lo; k <= hi; k++ {
		if best < 0 || power[k] > power[best] {
			best = k
		}
	}
	return best
}

func bandPower(power []float64, center, half int) float64 {
	var sum float64
	for k := max(0, center-half); k <= min(len(power)-1, center+half); k++ {
		sum += power[k]
	}
	return sum
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
