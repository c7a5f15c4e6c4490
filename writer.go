package sonify

import (
	"github.com/tphakala/go-gw-sonify/internal/wavio"
)

// AudioWriter persists a rendered asset.
type AudioWriter interface {
	Write(filename string, sampleRate int, samples []int16) error
}

// AudioWriterFunc adapts a function to the AudioWriter interface.
type AudioWriterFunc func(filename string, sampleRate int, samples []int16) error

// Write calls f.
func (f AudioWriterFunc) Write(filename string, sampleRate int, samples []int16) error {
	return f(filename, sampleRate, samples)
}

// WAVWriter writes mono 16-bit little-endian PCM WAV files.
// Writing to an existing path overwrites it without any atomic-rename step.
type WAVWriter struct{}

// Write implements AudioWriter.
func (WAVWriter) Write(filename string, sampleRate int, samples []int16) error {
	return wavio.WriteMono16(filename, sampleRate, samples)
}

// DefaultFileName returns the conventional output name for an event and
// detector, e.g. "GW150914_L1_audio.wav".
func DefaultFileName(event, detector string) string {
	return event + "_" + detector + audioFileSuffix
}
