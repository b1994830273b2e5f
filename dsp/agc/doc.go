// Package agc provides a monaural digital automatic gain control.
//
// [MonoAGC] rescales a float32 sample stream toward a target output level
// using a closed-loop, per-sample feedback rule on the power of the emitted
// sample:
//
//	x = x * gain
//	y = x*x / targetRMS
//	z = 1 + distortionFactor*(1 - y)
//	gain = gain * max(z, MinStep)
//
// Adaptation can be frozen to hold the current gain, for example while the
// input is silence or background noise.
//
// Processors in this package are single-threaded, allocation free and not
// thread-safe. Use one controller per channel; [Bank] bundles several for
// interleaved multichannel buffers without coupling them.
package agc
