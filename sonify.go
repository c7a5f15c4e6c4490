package sonify

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tphakala/go-gw-sonify/internal/fftresample"
	"github.com/tphakala/go-gw-sonify/internal/level"
)

// Common errors returned by the sonifier.
var (
	// ErrInvalidInput indicates an unusable waveform or parameter, such as a
	// non-positive pitch shift or time stretch.
	ErrInvalidInput = errors.New("invalid sonification input")

	// ErrZeroAmplitude identifies the all-zero waveform warning. It is
	// reported through Diagnostic.Err and never returned.
	ErrZeroAmplitude = errors.New("waveform has zero amplitude")

	// ErrWrite indicates the audio writer failed.
	ErrWrite = errors.New("failed to write audio")
)

// Source supplies a single-channel amplitude sequence sampled at a uniform
// interval. Implementations must not change the returned values while a
// render is in progress; the sonifier never writes to them.
type Source interface {
	Samples() []float64
	SampleInterval() float64 // seconds
}

// Waveform is an immutable Source.
type Waveform struct {
	samples  []float64
	interval float64
}

// NewWaveform copies samples into a Waveform sampled every interval seconds.
func NewWaveform(samples []float64, interval float64) (*Waveform, error) {
	if err := validateSource(samples, interval); err != nil {
		return nil, err
	}
	return &Waveform{
		samples:  append([]float64(nil), samples...),
		interval: interval,
	}, nil
}

// Samples returns the amplitude sequence. Callers must not modify it.
func (w *Waveform) Samples() []float64 { return w.samples }

// SampleInterval returns the sample spacing in seconds.
func (w *Waveform) SampleInterval() float64 { return w.interval }

// SampleRate returns 1 / SampleInterval.
func (w *Waveform) SampleRate() float64 { return 1 / w.interval }

// Parameters control a single render.
type Parameters struct {
	// PitchShift resamples by this factor and scales the playback rate by
	// the same factor. Must be positive; 1 disables the pass.
	PitchShift float64

	// TimeStretch resamples by this factor at the original rate.
	// Must be positive; 1 disables the pass.
	TimeStretch float64

	// Gain is clamped to [0, 1] when applied.
	Gain float64
}

// DefaultParameters returns unity pitch and stretch at half gain.
func DefaultParameters() Parameters {
	return Parameters{
		PitchShift:  DefaultPitchShift,
		TimeStretch: DefaultTimeStretch,
		Gain:        DefaultGain,
	}
}

// AudioAsset is a rendered mono PCM16 signal.
type AudioAsset struct {
	Samples    []int16
	SampleRate int // Hz
}

// Duration returns the playback length of the asset.
func (a *AudioAsset) Duration() time.Duration {
	if a.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(a.Samples)) / float64(a.SampleRate) * float64(time.Second))
}

// Config holds sonifier collaborators. Nil fields take defaults.
type Config struct {
	// Reporter receives progress lines and warnings.
	// Defaults to a LogReporter on the standard logger.
	Reporter Reporter

	// Writer persists the asset in Sonify. Defaults to WAVWriter.
	Writer AudioWriter
}

// Sonifier renders waveforms to audio. It holds no per-call state and may be
// shared by goroutines when its Reporter and Writer allow it.
type Sonifier struct {
	reporter Reporter
	writer   AudioWriter
}

// New creates a Sonifier. A nil config uses all defaults.
func New(config *Config) *Sonifier {
	s := &Sonifier{
		reporter: NewLogReporter(nil),
		writer:   WAVWriter{},
	}
	if config == nil {
		return s
	}
	if config.Reporter != nil {
		s.reporter = config.Reporter
	}
	if config.Writer != nil {
		s.writer = config.Writer
	}
	return s
}

// Sonify renders src with the default configuration and writes it to
// filename. See (*Sonifier).Sonify.
func Sonify(src Source, filename string, p Parameters) (string, error) {
	return New(nil).Sonify(src, filename, p)
}

// Sonify renders src and writes the asset to filename, returning the name
// used. An empty filename selects DefaultOutputName.
func (s *Sonifier) Sonify(src Source, filename string, p Parameters) (string, error) {
	if filename == "" {
		filename = DefaultOutputName
	}

	asset, err := s.Render(src, p)
	if err != nil {
		return "", err
	}

	if err := s.writer.Write(filename, asset.SampleRate, asset.Samples); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrWrite, filename, err)
	}

	s.info(StageWrite, "  Audio saved successfully!")
	s.info(StageWrite, "  Filename: %s", filename)
	s.info(StageWrite, "  Duration: %.4f seconds", asset.Duration().Seconds())
	s.info(StageWrite, "  Sample rate: %d Hz", asset.SampleRate)
	s.info(StageWrite, "  Data points: %d", len(asset.Samples))

	return filename, nil
}

// Render runs the transform without writing anything.
func (s *Sonifier) Render(src Source, p Parameters) (*AudioAsset, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil waveform", ErrInvalidInput)
	}
	strain := src.Samples()
	interval := src.SampleInterval()
	if err := validateSource(strain, interval); err != nil {
		return nil, err
	}

	originalRate, err := roundPositive(1/interval, "original sample rate")
	if err != nil {
		return nil, err
	}

	s.info(StageLoad, "Processing waveform...")
	s.info(StageLoad, "  Original duration: %.4f seconds", float64(len(strain))/float64(originalRate))
	s.info(StageLoad, "  Original sample rate: %d Hz", originalRate)

	rs := fftresample.New()

	if p.TimeStretch != identityFactor {
		n, err := scaledLength(len(strain), p.TimeStretch, "time stretch")
		if err != nil {
			return nil, err
		}
		if strain, err = rs.Resample(strain, n); err != nil {
			return nil, fmt.Errorf("%w: time stretch: %w", ErrInvalidInput, err)
		}
		s.info(StageStretch, "  Time stretched by %gx", p.TimeStretch)
	}

	finalRate := originalRate
	if p.PitchShift != identityFactor {
		n, err := scaledLength(len(strain), p.PitchShift, "pitch shift")
		if err != nil {
			return nil, err
		}
		rate, err := roundPositive(float64(originalRate)*p.PitchShift, "pitch-shifted sample rate")
		if err != nil {
			return nil, err
		}
		if strain, err = rs.Resample(strain, n); err != nil {
			return nil, fmt.Errorf("%w: pitch shift: %w", ErrInvalidInput, err)
		}
		finalRate = rate
		s.info(StagePitch, "  Pitch shifted by %gx", p.PitchShift)
	}

	normalized, ok := level.Normalize(strain)
	if !ok {
		s.reporter.Report(Diagnostic{
			Level:   LevelWarning,
			Stage:   StageNormalize,
			Message: "Waveform has zero amplitude!",
			Err:     ErrZeroAmplitude,
		})
	}

	return &AudioAsset{
		Samples:    level.Quantize(level.ApplyGain(normalized, p.Gain)),
		SampleRate: finalRate,
	}, nil
}

func (s *Sonifier) info(stage Stage, format string, args ...any) {
	s.reporter.Report(Diagnostic{
		Level:   LevelInfo,
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	})
}

func validateSource(samples []float64, interval float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: waveform has no samples", ErrInvalidInput)
	}
	if !(interval > 0) || math.IsInf(interval, 0) {
		return fmt.Errorf("%w: sample interval must be positive and finite, got %g", ErrInvalidInput, interval)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is not finite (%g)", ErrInvalidInput, i, v)
		}
	}
	return nil
}

// scaledLength returns round(n × factor), rejecting results that cannot be
// a sample count.
func scaledLength(n int, factor float64, what string) (int, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, fmt.Errorf("%w: %s factor must be finite, got %g", ErrInvalidInput, what, factor)
	}
	target := math.RoundToEven(float64(n) * factor)
	if target <= 0 {
		return 0, fmt.Errorf("%w: %s %g yields target length %g", ErrInvalidInput, what, factor, target)
	}
	if target > maxOutputSamples {
		return 0, fmt.Errorf("%w: %s %g yields %g samples (max %d)", ErrInvalidInput, what, factor, target, maxOutputSamples)
	}
	return int(target), nil
}

// roundPositive rounds v half to even and requires a positive result that
// fits a WAV sample-rate field.
func roundPositive(v float64, what string) (int, error) {
	r := math.RoundToEven(v)
	if !(r > 0) || r > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s %g out of range", ErrInvalidInput, what, v)
	}
	return int(r), nil
}
