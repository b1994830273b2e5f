package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/cwbudde/algo-dagc/dsp/agc"
	"github.com/cwbudde/algo-dagc/internal/audiofile"
	"github.com/cwbudde/algo-dagc/internal/stream"
)

type processCmd struct {
	agcFlags

	Gate     bool    `help:"Freeze adaptation during silence."`
	GateDB   float64 `name:"gate-db" default:"-60" help:"Silence threshold in dBFS for --gate."`
	GateHold int     `name:"gate-hold" default:"3" help:"Quiet frames tolerated before freezing."`

	Input  string `arg:"" type:"existingfile" help:"Input audio file (wav, aiff, mp3, ogg)."`
	Output string `arg:"" type:"path" help:"Output WAV file."`
}

func (c *processCmd) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := processFile(ctx, c, logger)
	if err != nil {
		return err
	}

	gains := make([]string, len(sum.FinalGains))
	for i, g := range sum.FinalGains {
		gains[i] = fmt.Sprintf("%.4f", g)
	}

	fmt.Print(renderReport("dagc "+version, []row{
		{"Input", c.Input},
		{"Output", c.Output},
		{"Frames", fmt.Sprintf("%d (%d frozen)", sum.Frames, sum.FrozenFrames)},
		{"Input RMS", fmt.Sprintf("%.1f dBFS", sum.Input.RMS_dB)},
		{"Output RMS", fmt.Sprintf("%.1f dBFS", sum.Output.RMS_dB)},
		{"Output peak", fmt.Sprintf("%.1f dBFS", sum.Output.Peak_dB)},
		{"Final gain", strings.Join(gains, " ")},
	}))

	return nil
}

// processFile levels c.Input into c.Output with one controller per channel.
func processFile(ctx context.Context, c *processCmd, logger *slog.Logger) (stream.Summary, error) {
	src, err := audiofile.Open(c.Input)
	if err != nil {
		return stream.Summary{}, err
	}
	defer src.Close()

	bank, err := agc.NewBank(src.Channels(), c.TargetRMS, c.Distortion)
	if err != nil {
		return stream.Summary{}, err
	}

	out, err := os.Create(c.Output)
	if err != nil {
		return stream.Summary{}, fmt.Errorf("create %s: %w", c.Output, err)
	}
	defer out.Close()

	w, err := audiofile.NewWAVWriter(out, src.SampleRate(), src.Channels())
	if err != nil {
		return stream.Summary{}, err
	}

	opts := []stream.Option{
		stream.WithFrameSize(c.FrameSize),
		stream.WithLogger(logger),
	}
	if c.Gate {
		opts = append(opts, stream.WithSilenceGate(c.GateDB, c.GateHold))
	}

	logger.Info("processing",
		"input", c.Input,
		"sample_rate", src.SampleRate(),
		"channels", src.Channels(),
		"target_rms", c.TargetRMS,
		"distortion", c.Distortion)

	sum, err := stream.New(bank, opts...).Run(ctx, src, w)
	if err != nil {
		return sum, err
	}

	if err := w.Close(); err != nil {
		return sum, err
	}

	return sum, out.Close()
}
