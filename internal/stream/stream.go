// Package stream drives interleaved audio through a bank of gain
// controllers frame by frame.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/algo-dagc/dsp/agc"
	"github.com/cwbudde/algo-dagc/dsp/core"
	"github.com/cwbudde/algo-dagc/stats/level"
)

// Reader supplies interleaved samples. It is satisfied by audiofile.Source.
type Reader interface {
	Channels() int
	// ReadSamples returns 0, io.EOF at the end of the stream.
	ReadSamples(dst []float32) (int, error)
}

// Writer consumes processed interleaved samples.
type Writer interface {
	Write(samples []float32) error
}

// Summary describes a completed run.
type Summary struct {
	Frames       int
	Samples      int // interleaved values processed
	FrozenFrames int
	Input        level.Stats
	Output       level.Stats
	FinalGains   []float32
}

// Runner feeds frames from a Reader through an [agc.Bank] into a Writer.
// The bank is owned by the runner for the duration of Run and must not be
// used concurrently.
type Runner struct {
	bank   *agc.Bank
	cfg    core.ProcessorConfig
	logger *slog.Logger
	gate   *silenceGate
}

// Option configures a Runner.
type Option func(*Runner)

// WithFrameSize sets the number of samples per channel read per frame.
func WithFrameSize(n int) Option {
	return func(r *Runner) {
		core.WithFrameSize(n)(&r.cfg)
	}
}

// WithLogger sets the logger for run progress. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSilenceGate freezes adaptation when a frame's input RMS falls below
// thresholdDB (dBFS) for more than holdFrames consecutive frames, and
// resumes on the first frame above it.
func WithSilenceGate(thresholdDB float64, holdFrames int) Option {
	return func(r *Runner) {
		r.gate = &silenceGate{
			threshold: core.DBToLinear(thresholdDB),
			hold:      max(holdFrames, 0),
		}
	}
}

// New creates a runner for bank.
func New(bank *agc.Bank, opts ...Option) *Runner {
	r := &Runner{
		bank:   bank,
		cfg:    core.ApplyProcessorOptions(core.WithChannels(bank.Channels())),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run processes src until EOF, an error, or ctx is done. Cancellation is
// checked between frames.
func (r *Runner) Run(ctx context.Context, src Reader, dst Writer) (Summary, error) {
	var sum Summary

	if src.Channels() != r.bank.Channels() {
		return sum, fmt.Errorf("stream: source has %d channels, bank has %d", src.Channels(), r.bank.Channels())
	}

	frameSamples := r.cfg.FrameSamples()
	buf := make([]float32, frameSamples)
	inMeter := level.NewMeter(frameSamples)
	outMeter := level.NewMeter(frameSamples)

	r.logger.Debug("stream start",
		"channels", r.cfg.Channels,
		"frame_size", r.cfg.FrameSize,
		"gate", r.gate != nil)

	for {
		if err := ctx.Err(); err != nil {
			return r.finish(sum, inMeter, outMeter), err
		}

		n, err := src.ReadSamples(buf)
		if n > 0 {
			frame := buf[:n]
			inMeter.Update(frame)

			if r.gate != nil {
				frozen := r.gate.update(level.FrameRMS(frame))
				if frozen != r.bank.IsGainFrozen() {
					r.logger.Debug("gate", "frame", sum.Frames, "frozen", frozen)
				}
				r.bank.FreezeGain(frozen)
			}

			if r.bank.IsGainFrozen() {
				sum.FrozenFrames++
			}

			r.bank.ProcessInterleaved(frame)
			outMeter.Update(frame)

			if werr := dst.Write(frame); werr != nil {
				return r.finish(sum, inMeter, outMeter), fmt.Errorf("stream: write frame %d: %w", sum.Frames, werr)
			}

			sum.Frames++
			sum.Samples += n
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return r.finish(sum, inMeter, outMeter), fmt.Errorf("stream: read frame %d: %w", sum.Frames, err)
		}
	}

	sum = r.finish(sum, inMeter, outMeter)
	r.logger.Info("stream done",
		"frames", sum.Frames,
		"frozen_frames", sum.FrozenFrames,
		"in_rms_db", sum.Input.RMS_dB,
		"out_rms_db", sum.Output.RMS_dB)

	return sum, nil
}

func (r *Runner) finish(sum Summary, in, out *level.Meter) Summary {
	sum.Input = in.Result()
	sum.Output = out.Result()
	sum.FinalGains = r.bank.Gains(nil)
	return sum
}

// silenceGate tracks consecutive quiet frames.
type silenceGate struct {
	threshold float64
	hold      int
	quiet     int
}

func (g *silenceGate) update(rms float64) bool {
	if rms >= g.threshold {
		g.quiet = 0
		return false
	}
	g.quiet++
	return g.quiet > g.hold
}
