package agc

import "math"

const (
	minDistortionFactor = 0.0
	maxDistortionFactor = 1.0
)

// Validate checks construction parameters for [New].
//
// The target level must be positive and finite. The distortion factor must
// lie in [0, 1]; NaN fails the range comparison and is rejected. The target
// is checked first, so when both are invalid an [*InvalidTargetRMSError] is
// returned.
func Validate(targetRMS, distortionFactor float32) error {
	t := float64(targetRMS)
	if !(t > 0) || math.IsInf(t, 0) {
		return &InvalidTargetRMSError{Value: targetRMS}
	}

	if !(distortionFactor >= minDistortionFactor && distortionFactor <= maxDistortionFactor) {
		return &InvalidDistortionFactorError{Value: distortionFactor}
	}

	return nil
}
