package agc

// MinStep is the floor of the per-sample multiplicative gain update.
//
// Without it a large power spike with a high distortion factor drives the
// update factor to zero or below, collapsing the gain or flipping its sign.
const MinStep float32 = 0.1

const unityGain float32 = 1

// MonoAGC is a single-channel automatic gain controller.
//
// Every processed sample is multiplied by the current gain. Unless frozen,
// the gain is then updated from the power of the emitted sample relative to
// the target level, so adaptation is driven by the actual output.
//
// Parameters:
//   - TargetRMS: desired output power reference, positive and finite
//   - DistortionFactor: adaptation step in [0, 1]; values around 1e-4..1e-3
//     keep gain modulation inaudible, larger values adapt faster
//
// The zero value is not usable; construct with [New]. MonoAGC is not
// thread-safe. Frames must be processed in temporal order since the gain
// carries over from one call to the next.
type MonoAGC struct {
	targetRMS        float32
	distortionFactor float32

	gain   float32
	frozen bool
}

// New creates a controller with unity gain and adaptation enabled.
//
// Invalid parameters are reported as [*InvalidTargetRMSError] or
// [*InvalidDistortionFactorError], see [Validate].
func New(targetRMS, distortionFactor float32) (*MonoAGC, error) {
	if err := Validate(targetRMS, distortionFactor); err != nil {
		return nil, err
	}

	return &MonoAGC{
		targetRMS:        targetRMS,
		distortionFactor: distortionFactor,
		gain:             unityGain,
	}, nil
}

// FreezeGain enables (true) or disables (false) holding the current gain.
// While frozen, samples are still scaled by the held gain.
func (a *MonoAGC) FreezeGain(freeze bool) {
	a.frozen = freeze
}

// IsGainFrozen reports whether gain adaptation is suspended.
func (a *MonoAGC) IsGainFrozen() bool {
	return a.frozen
}

// Gain returns the current linear gain.
func (a *MonoAGC) Gain() float32 {
	return a.gain
}

// TargetRMS returns the target output level.
func (a *MonoAGC) TargetRMS() float32 {
	return a.targetRMS
}

// DistortionFactor returns the adaptation step.
func (a *MonoAGC) DistortionFactor() float32 {
	return a.distortionFactor
}

// Reset restores unity gain. Parameters and the freeze state are kept.
func (a *MonoAGC) Reset() {
	a.gain = unityGain
}

// ProcessSample scales x by the current gain, adapts the gain unless frozen
// and returns the scaled sample.
func (a *MonoAGC) ProcessSample(x float32) float32 {
	x *= a.gain
	if a.frozen {
		return x
	}

	// The explicit conversion prevents FMA fusion, keeping output
	// bit-identical across architectures.
	y := x * x / a.targetRMS
	z := 1 + float32(a.distortionFactor*(1-y))
	a.gain *= max(z, MinStep)

	return x
}

// Process applies the controller to samples in place, left to right.
//
// The gain used for each sample is the one left by the previous sample, so
// gain may change within a frame. The update factor is floored at [MinStep].
// NaN and Inf samples are not filtered and propagate into the gain.
// An empty slice leaves the controller unchanged.
func (a *MonoAGC) Process(samples []float32) {
	if a.frozen {
		g := a.gain
		for i := range samples {
			samples[i] *= g
		}

		return
	}

	for i, x := range samples {
		samples[i] = a.ProcessSample(x)
	}
}
