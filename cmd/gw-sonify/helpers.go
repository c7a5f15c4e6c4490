package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sonify "github.com/tphakala/go-gw-sonify"
	"github.com/tphakala/go-gw-sonify/internal/strain"
	"github.com/tphakala/go-gw-sonify/internal/wavio"
)

const wavExt = ".wav"

// loadWaveform reads a projected waveform from a WAV or text file.
// interval is only used for single-column text.
func loadWaveform(path string, interval float64) (*sonify.Waveform, error) {
	if strings.EqualFold(filepath.Ext(path), wavExt) {
		return loadWAVWaveform(path)
	}
	return loadTextWaveform(path, interval)
}

func loadWAVWaveform(path string) (*sonify.Waveform, error) {
	mono, err := wavio.ReadMono(path)
	if err != nil {
		return nil, err
	}
	return sonify.NewWaveform(mono.Samples, 1.0/float64(mono.SampleRate))
}

func loadTextWaveform(path string, interval float64) (*sonify.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	series, err := strain.Read(f, interval)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sonify.NewWaveform(series.Values, series.Interval)
}
