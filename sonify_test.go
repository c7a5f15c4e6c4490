package sonify

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-gw-sonify/internal/testutil"
)

const (
	testRate   = 4096
	testCycles = 100 // periodic over the record, below every Nyquist limit used here
)

// unitSine is one second of a unit-amplitude sine at 4096 Hz.
func unitSine(t *testing.T) *Waveform {
	t.Helper()
	wf, err := NewWaveform(testutil.Sine(testRate, testCycles, 1), 1.0/testRate)
	require.NoError(t, err)
	return wf
}

// captureWriter records the last write instead of touching the filesystem.
type captureWriter struct {
	calls      int
	filename   string
	sampleRate int
	samples    []int16
	err        error
}

func (w *captureWriter) Write(filename string, sampleRate int, samples []int16) error {
	w.calls++
	w.filename = filename
	w.sampleRate = sampleRate
	w.samples = samples
	return w.err
}

func newTestSonifier() (*Sonifier, *Recorder, *captureWriter) {
	rec := &Recorder{}
	w := &captureWriter{}
	return New(&Config{Reporter: rec, Writer: w}), rec, w
}

func TestRender_ScenarioTimeStretch(t *testing.T) {
	s, rec, _ := newTestSonifier()

	asset, err := s.Render(unitSine(t), Parameters{PitchShift: 1, TimeStretch: 2, Gain: 1})
	require.NoError(t, err)

	assert.Len(t, asset.Samples, 8192)
	assert.Equal(t, 4096, asset.SampleRate)
	assert.Equal(t, 2*time.Second, asset.Duration())

	hi, lo := testutil.PeakInt16(asset.Samples)
	assert.Equal(t, int16(32767), hi)
	assert.Equal(t, int16(-32767), lo)

	assert.Empty(t, rec.Warnings())
	assert.True(t, hasStage(rec, StageStretch))
	assert.False(t, hasStage(rec, StagePitch), "pitch pass must be skipped at 1.0")
}

func TestRender_ScenarioPitchShift(t *testing.T) {
	s, rec, _ := newTestSonifier()

	asset, err := s.Render(unitSine(t), Parameters{PitchShift: 2, TimeStretch: 1, Gain: 1})
	require.NoError(t, err)

	assert.Len(t, asset.Samples, 8192)
	assert.Equal(t, 8192, asset.SampleRate)
	assert.Equal(t, time.Second, asset.Duration())
	assert.False(t, hasStage(rec, StageStretch), "stretch pass must be skipped at 1.0")
	assert.True(t, hasStage(rec, StagePitch))
}

func TestRender_ScenarioZeroAmplitude(t *testing.T) {
	params := []Parameters{
		DefaultParameters(),
		{PitchShift: 0.5, TimeStretch: 1.5, Gain: 1},
		{PitchShift: 3, TimeStretch: 0.25, Gain: 2},
	}

	for _, p := range params {
		s, rec, _ := newTestSonifier()
		wf, err := NewWaveform(make([]float64, testRate), 1.0/testRate)
		require.NoError(t, err)

		asset, err := s.Render(wf, p)
		require.NoError(t, err)

		stretched := int(math.RoundToEven(testRate * p.TimeStretch))
		wantLen := stretched
		if p.PitchShift != 1 {
			wantLen = int(math.RoundToEven(float64(stretched) * p.PitchShift))
		}
		assert.Len(t, asset.Samples, wantLen)
		testutil.AssertAllZero(t, asset.Samples)

		warnings := rec.Warnings()
		require.Len(t, warnings, 1)
		assert.ErrorIs(t, warnings[0].Err, ErrZeroAmplitude)
		assert.Equal(t, "Waveform has zero amplitude!", warnings[0].Message)
		assert.Equal(t, StageNormalize, warnings[0].Stage)
	}
}

func TestRender_StretchLength(t *testing.T) {
	s, _, _ := newTestSonifier()
	wf, err := NewWaveform(testutil.Sine(1000, 3, 1e-21), 1.0/4096)
	require.NoError(t, err)

	for _, stretch := range []float64{0.5, 0.7731, 1.25, 2.0005, 3.3} {
		asset, err := s.Render(wf, Parameters{PitchShift: 1, TimeStretch: stretch, Gain: 0.5})
		require.NoError(t, err)
		assert.Len(t, asset.Samples, int(math.RoundToEven(1000*stretch)), "stretch %g", stretch)
		assert.Equal(t, 4096, asset.SampleRate)
	}
}

func TestRender_FinalSampleRate(t *testing.T) {
	s, _, _ := newTestSonifier()
	wf, err := NewWaveform(testutil.Sine(512, 3, 1), 1.0/4096)
	require.NoError(t, err)

	for _, shift := range []float64{0.5, 0.75, 1.1, 1.5, 2, 10.3} {
		asset, err := s.Render(wf, Parameters{PitchShift: shift, TimeStretch: 1, Gain: 1})
		require.NoError(t, err)
		assert.Equal(t, int(math.RoundToEven(4096*shift)), asset.SampleRate, "shift %g", shift)
		assert.Len(t, asset.Samples, int(math.RoundToEven(512*shift)), "shift %g", shift)
	}
}

func TestRender_RoundsHalfToEven(t *testing.T) {
	s, _, _ := newTestSonifier()
	// 5 × 1.5 = 7.5 -> 8, then 8 × 1.0625 = 8.5 -> 8; rate 8 × 1.0625 = 8.5 -> 8
	wf, err := NewWaveform([]float64{1, -1, 0.5, 0.25, 0}, 0.125)
	require.NoError(t, err)

	asset, err := s.Render(wf, Parameters{PitchShift: 1.0625, TimeStretch: 1.5, Gain: 1})
	require.NoError(t, err)
	assert.Len(t, asset.Samples, 8)
	assert.Equal(t, 8, asset.SampleRate)
}

func TestRender_GainScalesPeak(t *testing.T) {
	s, _, _ := newTestSonifier()
	wf := unitSine(t)

	tests := []struct {
		gain float64
		peak int16
	}{
		{1.5, 32767},
		{1, 32767},
		{0.5, 16384},
		{0, 0},
		{-0.3, 0},
	}
	for _, tt := range tests {
		asset, err := s.Render(wf, Parameters{PitchShift: 1, TimeStretch: 1, Gain: tt.gain})
		require.NoError(t, err)
		hi, _ := testutil.PeakInt16(asset.Samples)
		assert.Equal(t, tt.peak, hi, "gain %g", tt.gain)
	}
}

func TestRender_InvalidFactors(t *testing.T) {
	s, _, w := newTestSonifier()
	wf := unitSine(t)

	tests := []struct {
		name string
		p    Parameters
	}{
		{"zero stretch", Parameters{PitchShift: 1, TimeStretch: 0, Gain: 1}},
		{"negative stretch", Parameters{PitchShift: 1, TimeStretch: -2, Gain: 1}},
		{"zero pitch", Parameters{PitchShift: 0, TimeStretch: 1, Gain: 1}},
		{"negative pitch", Parameters{PitchShift: -1, TimeStretch: 2, Gain: 1}},
		{"vanishing stretch", Parameters{PitchShift: 1, TimeStretch: 1e-6, Gain: 1}},
		{"NaN pitch", Parameters{PitchShift: math.NaN(), TimeStretch: 1, Gain: 1}},
		{"infinite stretch", Parameters{PitchShift: 1, TimeStretch: math.Inf(1), Gain: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Sonify(wf, "out.wav", tt.p)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, w.calls, "nothing may be written on input errors")
}

func TestRender_InvalidWaveform(t *testing.T) {
	s, _, _ := newTestSonifier()

	_, err := s.Render(nil, DefaultParameters())
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Render(rawSource{interval: 1}, DefaultParameters())
	require.ErrorIs(t, err, ErrInvalidInput)

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = s.Render(rawSource{samples: []float64{1}, interval: dt}, DefaultParameters())
		require.ErrorIs(t, err, ErrInvalidInput, "interval %g", dt)
	}

	// 1/dt rounds to a zero rate
	_, err = s.Render(rawSource{samples: []float64{1}, interval: 10}, DefaultParameters())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRender_RejectsNonFiniteSamples(t *testing.T) {
	s, rec, w := newTestSonifier()

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		src := rawSource{samples: []float64{0.5, bad, -0.25}, interval: 1.0 / 4096}
		_, err := s.Sonify(src, "out.wav", DefaultParameters())
		require.ErrorIs(t, err, ErrInvalidInput, "sample %g", bad)
		assert.Contains(t, err.Error(), "sample 1")

		_, err = NewWaveform(src.samples, src.interval)
		require.ErrorIs(t, err, ErrInvalidInput, "sample %g", bad)
	}
	assert.Zero(t, w.calls)
	assert.Empty(t, rec.Warnings())
}

func TestRender_AcceptsAnySource(t *testing.T) {
	s, _, _ := newTestSonifier()
	src := rawSource{samples: []float64{0, 2e-21, -1e-21}, interval: 1.0 / 16384}

	asset, err := s.Render(src, Parameters{PitchShift: 1, TimeStretch: 1, Gain: 1})
	require.NoError(t, err)
	assert.Equal(t, []int16{0, 32767, -16384}, asset.Samples)
	assert.Equal(t, 16384, asset.SampleRate)
}

func TestRender_DoesNotModifySource(t *testing.T) {
	s, _, _ := newTestSonifier()
	samples := []float64{0.1, -0.4, 0.2}
	src := rawSource{samples: samples, interval: 0.5}

	_, err := s.Render(src, Parameters{PitchShift: 1, TimeStretch: 1, Gain: 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, -0.4, 0.2}, samples)
}

func TestSonify_WritesAssetAndReportsSummary(t *testing.T) {
	s, rec, w := newTestSonifier()

	name, err := s.Sonify(unitSine(t), "GW150914_L1_audio.wav", Parameters{PitchShift: 2, TimeStretch: 1, Gain: 0.5})
	require.NoError(t, err)

	assert.Equal(t, "GW150914_L1_audio.wav", name)
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, name, w.filename)
	assert.Equal(t, 8192, w.sampleRate)
	assert.Len(t, w.samples, 8192)

	var messages []string
	for _, d := range rec.Records() {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, messages, "  Original duration: 1.0000 seconds")
	assert.Contains(t, messages, "  Original sample rate: 4096 Hz")
	assert.Contains(t, messages, "  Pitch shifted by 2x")
	assert.Contains(t, messages, "  Duration: 1.0000 seconds")
	assert.Contains(t, messages, "  Sample rate: 8192 Hz")
	assert.Contains(t, messages, "  Data points: 8192")
}

func TestSonify_DefaultFilename(t *testing.T) {
	s, _, w := newTestSonifier()

	name, err := s.Sonify(unitSine(t), "", DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputName, name)
	assert.Equal(t, DefaultOutputName, w.filename)
}

func TestSonify_WriteFailure(t *testing.T) {
	diskFull := errors.New("no space left on device")
	rec := &Recorder{}
	s := New(&Config{
		Reporter: rec,
		Writer:   &captureWriter{err: diskFull},
	})

	_, err := s.Sonify(unitSine(t), "out.wav", DefaultParameters())
	require.ErrorIs(t, err, ErrWrite)
	require.ErrorIs(t, err, diskFull)

	for _, d := range rec.Records() {
		assert.NotEqual(t, StageWrite, d.Stage, "no success summary after a failed write")
	}
}

func TestSonify_WritesWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName("GW150914", "H1"))
	s := New(&Config{Reporter: Discard})

	name, err := s.Sonify(unitSine(t), path, Parameters{PitchShift: 1.5, TimeStretch: 2, Gain: 1})
	require.NoError(t, err)
	assert.Equal(t, path, name)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, uint32(6144), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
	assert.Len(t, buf.Data, 12288)
}

func TestSonify_WriteToMissingDirectory(t *testing.T) {
	s := New(&Config{Reporter: Discard})
	_, err := s.Sonify(unitSine(t), "/nonexistent/dir/out.wav", DefaultParameters())
	require.ErrorIs(t, err, ErrWrite)
}

func TestNewWaveform(t *testing.T) {
	in := []float64{1, 2, 3}
	wf, err := NewWaveform(in, 0.25)
	require.NoError(t, err)

	in[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, wf.Samples(), "NewWaveform must copy")
	assert.Equal(t, 0.25, wf.SampleInterval())
	assert.Equal(t, 4.0, wf.SampleRate())

	_, err = NewWaveform(nil, 0.25)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewWaveform([]float64{1}, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, Parameters{PitchShift: 1, TimeStretch: 1, Gain: 0.5}, DefaultParameters())
	assert.Equal(t, "GW150914_L1_audio.wav", DefaultFileName("GW150914", "L1"))
	assert.Equal(t, time.Duration(0), (&AudioAsset{}).Duration())
}

func TestNew_NilConfig(t *testing.T) {
	s := New(nil)
	assert.IsType(t, &LogReporter{}, s.reporter)
	assert.IsType(t, WAVWriter{}, s.writer)

	s = New(&Config{})
	assert.IsType(t, &LogReporter{}, s.reporter)
	assert.IsType(t, WAVWriter{}, s.writer)
}

type rawSource struct {
	samples  []float64
	interval float64
}

func (r rawSource) Samples() []float64      { return r.samples }
func (r rawSource) SampleInterval() float64 { return r.interval }

func hasStage(rec *Recorder, stage Stage) bool {
	for _, d := range rec.Records() {
		if d.Stage == stage {
			return true
		}
	}
	return false
}
