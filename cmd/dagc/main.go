// Command dagc runs the monaural digital AGC over audio files or a
// synthetic test tone.
//
// Usage:
//
//	dagc process [flags] <input> <output.wav>
//	dagc analyze [flags]
//
// Examples:
//
//	dagc process --target-rms 0.01 --distortion 0.0005 speech.mp3 out.wav
//	dagc process --gate-db -55 --gate-hold 5 interview.wav leveled.wav
//	dagc analyze --amplitude 0.02 --seconds 3
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable debug logging."`
	Version kong.VersionFlag `help:"Show version information."`

	Process processCmd `cmd:"" help:"Level an audio file and write 16-bit WAV."`
	Analyze analyzeCmd `cmd:"" help:"Run a synthetic tone through the AGC and report convergence and distortion."`
}

// agcFlags are shared by every command that builds a controller.
type agcFlags struct {
	TargetRMS  float32 `name:"target-rms" default:"0.01" env:"DAGC_TARGET_RMS" help:"Target output power reference (positive, finite)."`
	Distortion float32 `name:"distortion" default:"0.0005" env:"DAGC_DISTORTION" help:"Adaptation step in [0, 1]."`
	FrameSize  int     `name:"frame-size" default:"960" env:"DAGC_FRAME_SIZE" help:"Samples per channel per frame."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("dagc"),
		kong.Description("Monaural digital automatic gain control"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(logger)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}
