package agc

import "fmt"

// Bank holds one independent [MonoAGC] per channel of an interleaved
// stream. Channels never share state: each adapts only to its own samples.
type Bank struct {
	channels []*MonoAGC
}

// NewBank creates a bank of identically parameterised controllers.
func NewBank(channels int, targetRMS, distortionFactor float32) (*Bank, error) {
	if channels < 1 {
		return nil, fmt.Errorf("agc: bank channel count must be at least 1: %d", channels)
	}

	b := &Bank{channels: make([]*MonoAGC, channels)}
	for i := range b.channels {
		a, err := New(targetRMS, distortionFactor)
		if err != nil {
			return nil, err
		}
		b.channels[i] = a
	}

	return b, nil
}

// Channels returns the number of controllers.
func (b *Bank) Channels() int {
	return len(b.channels)
}

// Channel returns the controller for channel i.
func (b *Bank) Channel(i int) *MonoAGC {
	return b.channels[i]
}

// FreezeGain sets the freeze state of every channel.
func (b *Bank) FreezeGain(freeze bool) {
	for _, a := range b.channels {
		a.FreezeGain(freeze)
	}
}

// IsGainFrozen reports whether every channel is frozen.
func (b *Bank) IsGainFrozen() bool {
	for _, a := range b.channels {
		if !a.IsGainFrozen() {
			return false
		}
	}

	return true
}

// Gains appends the current gain of each channel to dst and returns it.
func (b *Bank) Gains(dst []float32) []float32 {
	for _, a := range b.channels {
		dst = append(dst, a.Gain())
	}

	return dst
}

// Reset restores unity gain on every channel.
func (b *Bank) Reset() {
	for _, a := range b.channels {
		a.Reset()
	}
}

// ProcessInterleaved processes an interleaved buffer in place. Sample k
// belongs to channel k % Channels(), so buf must start on a frame boundary.
// A trailing partial frame is processed for the channels it contains.
func (b *Bank) ProcessInterleaved(buf []float32) {
	n := len(b.channels)
	if n == 1 {
		b.channels[0].Process(buf)
		return
	}

	for i := 0; i < len(buf); i += n {
		frame := buf[i:min(i+n, len(buf))]
		for ch := range frame {
			frame[ch] = b.channels[ch].ProcessSample(frame[ch])
		}
	}
}
