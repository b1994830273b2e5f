// Package audiofile decodes audio files into interleaved float32 samples
// and writes processed audio back as 16-bit PCM WAV.
//
// Supported inputs are WAV and AIFF (github.com/go-audio), MP3
// (github.com/hajimehoshi/go-mp3) and Ogg Vorbis
// (github.com/jfreymuth/oggvorbis). Samples are normalised to [-1, 1].
package audiofile
