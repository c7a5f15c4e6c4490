package wavio

// Sample format constants
const (
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	monoChannels = 1

	// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag.
	wavFormatPCM = 1

	// uint8Midpoint is silence in unsigned 8-bit PCM.
	uint8Midpoint = 128
)

// Full-scale values used to map integer PCM onto [-1, 1].
const (
	maxInt8  = 127.0
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0
)
