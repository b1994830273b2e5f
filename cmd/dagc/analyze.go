package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-dagc/dsp/agc"
	"github.com/cwbudde/algo-dagc/dsp/core"
	"github.com/cwbudde/algo-dagc/measure/distortion"
	"github.com/cwbudde/algo-dagc/stats/level"
)

const (
	thdWindow          = 8192
	convergedTolerance = 0.1
)

type analyzeCmd struct {
	agcFlags

	SampleRate  float64 `name:"sample-rate" default:"48000" help:"Tone sample rate in Hz."`
	Freq        float64 `default:"1000" help:"Tone frequency in Hz."`
	Amplitude   float64 `default:"0.05" help:"Tone peak amplitude."`
	Seconds     float64 `default:"5" help:"Tone duration in seconds."`
	FreezeAfter float64 `name:"freeze-after" default:"0" help:"Freeze adaptation after this many seconds (0 disables)."`
}

// analysis is the outcome of a synthetic tone run.
type analysis struct {
	FinalGain      float32
	OutputRMS      float64
	ExpectedRMS    float64
	ConvergedAfter float64 // seconds; negative if never within tolerance
	THD            float64
	THD_dB         float64 //nolint:revive
}

func (c *analyzeCmd) Run(logger *slog.Logger) error {
	res, err := runAnalysis(c, logger)
	if err != nil {
		return err
	}

	converged := "not within run"
	if res.ConvergedAfter >= 0 {
		converged = fmt.Sprintf("%.3f s", res.ConvergedAfter)
	}

	fmt.Print(renderReport("dagc analyze", []row{
		{"Tone", fmt.Sprintf("%.0f Hz @ %.3f", c.Freq, c.Amplitude)},
		{"Target RMS", fmt.Sprintf("%g", c.TargetRMS)},
		{"Distortion", fmt.Sprintf("%g", c.Distortion)},
		{"Final gain", fmt.Sprintf("%.4f", res.FinalGain)},
		{"Output RMS", fmt.Sprintf("%.5f (expected %.5f)", res.OutputRMS, res.ExpectedRMS)},
		{"Converged", converged},
		{"THD", fmt.Sprintf("%.4f%% (%.1f dB)", 100*res.THD, res.THD_dB)},
	}))

	return nil
}

// runAnalysis feeds a sine through a controller frame by frame. At
// equilibrium the mean of x*x/targetRMS is 1, so the expected output RMS
// is sqrt(targetRMS).
func runAnalysis(c *analyzeCmd, logger *slog.Logger) (analysis, error) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(c.SampleRate), core.WithFrameSize(c.FrameSize))
	if c.Freq <= 0 || c.Freq >= cfg.SampleRate/2 {
		return analysis{}, fmt.Errorf("tone frequency must be in (0, %g): %g", cfg.SampleRate/2, c.Freq)
	}

	a, err := agc.New(c.TargetRMS, c.Distortion)
	if err != nil {
		return analysis{}, err
	}

	total := int(c.Seconds * cfg.SampleRate)
	if total < thdWindow {
		return analysis{}, fmt.Errorf("tone too short: need at least %d samples, have %d", thdWindow, total)
	}

	res := analysis{
		ExpectedRMS:    math.Sqrt(float64(c.TargetRMS)),
		ConvergedAfter: -1,
	}

	freezeAt := -1
	if c.FreezeAfter > 0 {
		freezeAt = int(c.FreezeAfter * cfg.SampleRate)
	}

	out := make([]float32, total)
	step := 2 * math.Pi * c.Freq / cfg.SampleRate
	for i := range out {
		out[i] = float32(c.Amplitude * math.Sin(step*float64(i)))
	}

	for start := 0; start < total; start += cfg.FrameSize {
		if freezeAt >= 0 && start >= freezeAt && !a.IsGainFrozen() {
			a.FreezeGain(true)
			logger.Debug("gain frozen", "sample", start, "gain", a.Gain())
		}

		frame := out[start:min(start+cfg.FrameSize, total)]
		a.Process(frame)

		rms := level.FrameRMS(frame)
		within := math.Abs(rms-res.ExpectedRMS) <= convergedTolerance*res.ExpectedRMS
		switch {
		case within && res.ConvergedAfter < 0:
			res.ConvergedAfter = float64(start) / cfg.SampleRate
		case !within:
			res.ConvergedAfter = -1
		}
	}

	res.FinalGain = a.Gain()
	res.OutputRMS = level.FrameRMS(out[total-thdWindow:])

	thd, err := distortion.Analyze(out[total-thdWindow:], distortion.Config{
		SampleRate:    cfg.SampleRate,
		FundamentalHz: c.Freq,
	})
	if err != nil {
		return res, err
	}
	res.THD = thd.THD
	res.THD_dB = thd.THD_dB

	logger.Debug("analysis done", "final_gain", res.FinalGain, "output_rms", res.OutputRMS)

	return res, nil
}
