package audiofile

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-dagc/dsp/core"
)

const (
	wavFormatPCM = 1
	wavBitDepth  = 16
)

// DecodeWAV decodes an integer PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("audiofile: wav header: %w", err)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	return newPCMSource(dec, int(dec.BitDepth))
}

// WAVWriter encodes interleaved float32 samples as 16-bit PCM WAV.
// Samples outside [-1, 1] are clipped.
type WAVWriter struct {
	enc    *wav.Encoder
	buf    *goaudio.IntBuffer
	closed bool
}

// NewWAVWriter creates a writer. The header is finalised by Close, which
// is why w must be seekable.
func NewWAVWriter(w io.WriteSeeker, sampleRate, channels int) (*WAVWriter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audiofile: wav sample rate must be positive: %d", sampleRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("audiofile: wav channel count must be at least 1: %d", channels)
	}

	return &WAVWriter{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, channels, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// Write appends interleaved samples.
func (w *WAVWriter) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]

	const fullScale = 1<<15 - 1
	for i, v := range samples {
		w.buf.Data[i] = int(core.Clamp(float64(v), -1, 1) * fullScale)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("audiofile: wav write: %w", err)
	}
	return nil
}

// Close flushes the encoder and patches the header sizes. It does not
// close the underlying writer.
func (w *WAVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("audiofile: wav close: %w", err)
	}
	return nil
}
