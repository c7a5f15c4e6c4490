package fftresample

const (
	// hermitianDivisor gives the number of unique bins of a real FFT:
	// a transform of size N has N/2 + 1 complex coefficients.
	hermitianDivisor = 2

	// nyquistSplit halves the Nyquist bin when it is spread over the positive
	// and negative frequencies of a longer output.
	nyquistSplit = 0.5

	// nyquistFold doubles the Nyquist bin when the negative-frequency half is
	// folded onto it for a shorter output.
	nyquistFold = 2.0
)
