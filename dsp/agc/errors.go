package agc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTargetRMS matches any [InvalidTargetRMSError].
	ErrInvalidTargetRMS = errors.New("agc: invalid target rms")
	// ErrInvalidDistortionFactor matches any [InvalidDistortionFactorError].
	ErrInvalidDistortionFactor = errors.New("agc: invalid distortion factor")
)

// Error is the set of construction errors reported by [Validate] and [New].
// The only implementations are [*InvalidTargetRMSError] and
// [*InvalidDistortionFactorError].
type Error interface {
	error
	agcError()
}

// InvalidTargetRMSError reports a target level that is not positive and finite.
type InvalidTargetRMSError struct {
	Value float32
}

func (e *InvalidTargetRMSError) Error() string {
	return fmt.Sprintf("agc: target rms must be positive and finite: %v", e.Value)
}

// Is reports whether target is [ErrInvalidTargetRMS].
func (e *InvalidTargetRMSError) Is(target error) bool {
	return target == ErrInvalidTargetRMS
}

func (*InvalidTargetRMSError) agcError() {}

// InvalidDistortionFactorError reports a distortion factor outside [0, 1].
type InvalidDistortionFactorError struct {
	Value float32
}

func (e *InvalidDistortionFactorError) Error() string {
	return fmt.Sprintf("agc: distortion factor must be in [0, 1]: %v", e.Value)
}

// Is reports whether target is [ErrInvalidDistortionFactor].
func (e *InvalidDistortionFactorError) Is(target error) bool {
	return target == ErrInvalidDistortionFactor
}

func (*InvalidDistortionFactorError) agcError() {}
