// Package wavio reads and writes the WAV files used by the sonifier.
//
// Output is always mono 16-bit PCM. Input may be any integer PCM layout
// go-audio/wav understands; channels are averaged down to mono.
package wavio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV indicates a file that is not a decodable WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrInvalidRate indicates a non-positive sample rate.
	ErrInvalidRate = errors.New("sample rate must be positive")
)

// WriteMono16 writes samples as a mono 16-bit PCM WAV file at sampleRate.
// An existing file at path is truncated.
func WriteMono16(path string, sampleRate int, samples []int16) (err error) {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, bitsPerSample16, monoChannels, wavFormatPCM)

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: monoChannels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitsPerSample16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	// Close patches the RIFF and data chunk sizes.
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}

// Mono is a decoded single-channel signal.
type Mono struct {
	Samples    []float64
	SampleRate int
	BitDepth   int
	Channels   int // channel count of the source file before mixing
}

// ReadMono decodes a WAV file into samples in [-1, 1], averaging channels.
func ReadMono(path string) (*Mono, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	format := dec.Format()
	channels := max(format.NumChannels, monoChannels)
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %s has sample rate %d", ErrInvalidWAV, path, format.SampleRate)
	}

	bitDepth := int(dec.BitDepth)
	return &Mono{
		Samples:    mixToMono(buf.Data, channels, pcmOffset(bitDepth), 1.0/fullScale(bitDepth)),
		SampleRate: format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   channels,
	}, nil
}

// mixToMono averages interleaved frames, removes the unsigned offset and
// scales them to [-1, 1].
func mixToMono(data []int, channels, offset int, invMaxVal float64) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)

	if channels == monoChannels {
		for i := range frames {
			out[i] = float64(data[i]-offset) * invMaxVal
		}
		return out
	}

	scale := invMaxVal / float64(channels)
	for i := range frames {
		base := i * channels
		var sum float64
		for ch := range channels {
			sum += float64(data[base+ch] - offset)
		}
		out[i] = sum * scale
	}
	return out
}

// fullScale returns the maximum sample value for the given bit depth.
func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample8:
		return maxInt8
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// pcmOffset returns the code of silence. 8-bit WAV is unsigned, every other
// depth is signed.
func pcmOffset(bitDepth int) int {
	if bitDepth == bitsPerSample8 {
		return uint8Midpoint
	}
	return 0
}
