// Package sonify renders gravitational-wave strain waveforms as audible
// mono 16-bit PCM WAV files.
//
// A waveform is any value implementing [Source]: an amplitude sequence and
// its uniform sample interval, typically a strain time series projected onto
// a detector. The transform runs in a fixed order:
//
//	Source -> time stretch -> pitch shift -> normalize -> gain -> quantize -> WAV
//
// Both stretch and shift use band-limited (FFT) resampling to an exact sample
// count. The time-stretch pass resamples round(N × TimeStretch) samples that are
// still played at the original rate. The pitch-shift pass resamples
// round(len × PitchShift) samples and plays them at
// round(original_rate × PitchShift) Hz, so pitch and duration are not
// independent controls. With TimeStretch 1 and PitchShift 2, duration stays the
// same and the rate doubles.
//
// # Quick Start
//
//	wf, err := sonify.NewWaveform(strain, 1.0/4096)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, err := sonify.Sonify(wf, sonify.DefaultFileName("GW150914", "L1"), sonify.Parameters{
//	    PitchShift:  1.0,
//	    TimeStretch: 2.0,
//	    Gain:        0.5,
//	})
//
// # Diagnostics
//
// Progress and warnings are delivered as typed [Diagnostic] records to the
// [Reporter] in [Config]. An all-zero waveform is not an error: it renders
// as silence and produces a warning whose Err is [ErrZeroAmplitude]. Use a
// [Recorder] to inspect diagnostics programmatically.
//
// # Rounding
//
// Every real-to-integer step (rates, lengths, PCM codes) rounds half to even.
// PCM codes span [-32767, 32767]; -32768 is never produced.
package sonify
