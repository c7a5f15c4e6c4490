package sonify

// Parameter defaults, matching the command-line defaults.
const (
	DefaultPitchShift  = 1.0
	DefaultTimeStretch = 1.0
	DefaultGain        = 0.5
)

// Output naming
const (
	// DefaultOutputName is used when Sonify is called without a filename.
	DefaultOutputName = "gw_audio.wav"

	audioFileSuffix = "_audio.wav"
)

// Length and rate limits
const (
	// identityFactor disables a resampling pass.
	identityFactor = 1.0

	// maxOutputSamples keeps the 16-bit mono data chunk within the 32-bit
	// RIFF size field.
	maxOutputSamples = (1<<32 - 1 - wavHeaderSize) / bytesPerSample16

	wavHeaderSize    = 44
	bytesPerSample16 = 2
)
