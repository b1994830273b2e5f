package audiofile

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
)

// DecodeAIFF decodes an integer PCM AIFF stream.
func DecodeAIFF(r io.ReadSeeker) (Source, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAIFF
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("audiofile: aiff header: %w", err)
	}

	return newPCMSource(dec, int(dec.BitDepth))
}
