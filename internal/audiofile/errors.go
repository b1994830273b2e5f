package audiofile

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("audiofile: unsupported format")
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")
	ErrNotWAV              = errors.New("audiofile: not a wav file")
	ErrNotAIFF             = errors.New("audiofile: not an aiff file")
	ErrInvalidDstSize      = errors.New("audiofile: dst size must be a multiple of channels")
)
