package audiofile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Source is a decoded PCM stream.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels is the number of interleaved channels.
	Channels() int
	// ReadSamples fills dst with interleaved samples in [-1, 1] and returns
	// the number of values written. len(dst) must be a multiple of
	// Channels(). At the end of the stream it returns 0, io.EOF.
	ReadSamples(dst []float32) (int, error)
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from seekable input.
type Decoder func(r io.ReadSeeker) (Source, error)

// Registry maps format keys (file extensions without the dot) to decoders.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// Register adds or replaces the decoder for format.
func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

// Get returns the decoder for format.
func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Formats returns the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var defaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", DecodeWAV)
	r.Register("aiff", DecodeAIFF)
	r.Register("aif", DecodeAIFF)
	r.Register("mp3", DecodeMP3)
	r.Register("ogg", DecodeVorbis)
	return r
}

// DefaultRegistry returns the registry used by [Open] and [Decode].
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Decode decodes r using the decoder registered for format.
func Decode(format string, r io.ReadSeeker) (Source, error) {
	d, ok := defaultRegistry.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return d(r)
}

// Open opens path and decodes it by file extension. Closing the returned
// Source closes the file.
func Open(path string) (Source, error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	d, ok := defaultRegistry.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}

	src, err := d(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audiofile: decode %s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}

type fileSource struct {
	Source
	f *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
