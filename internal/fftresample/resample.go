// Package fftresample changes the length of a sampled signal by band-limited
// interpolation in the frequency domain.
//
// The signal is treated as one period of a periodic sequence. Its spectrum is
// truncated or zero-padded to the requested length and transformed back, so
// content below the lower of the two Nyquist limits is preserved exactly.
package fftresample

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	// ErrInvalidLength indicates a non-positive target length.
	ErrInvalidLength = errors.New("fftresample: target length must be positive")

	// ErrEmptyInput indicates an input sequence without samples.
	ErrEmptyInput = errors.New("fftresample: empty input")
)

// Resampler reconstructs sequences at arbitrary lengths.
// FFT plans are cached per length, so a Resampler reused on the same
// lengths does not rebuild twiddle tables. A Resampler is not safe for
// concurrent use.
type Resampler struct {
	plans map[int]*fourier.FFT
}

// New returns an empty Resampler.
func New() *Resampler {
	return &Resampler{plans: make(map[int]*fourier.FFT)}
}

func (r *Resampler) plan(n int) *fourier.FFT {
	if p, ok := r.plans[n]; ok {
		return p
	}
	p := fourier.NewFFT(n)
	r.plans[n] = p
	return p
}

// Resample is a convenience wrapper using a fresh Resampler.
func Resample(x []float64, n int) ([]float64, error) {
	return New().Resample(x, n)
}

// Resample returns exactly n samples reconstructed from x.
// The input is never modified.
func (r *Resampler) Resample(x []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, n)
	}
	inLen := len(x)
	if inLen == 0 {
		return nil, ErrEmptyInput
	}

	switch {
	case n == inLen:
		out := make([]float64, n)
		copy(out, x)
		return out, nil
	case inLen == 1:
		// A single sample only carries DC.
		out := make([]float64, n)
		for i := range out {
			out[i] = x[0]
		}
		return out, nil
	case n == 1:
		return []float64{f64.Sum(x) / float64(inLen)}, nil
	}

	spectrum := r.plan(inLen).Coefficients(nil, x)
	shaped := reshapeSpectrum(spectrum, inLen, n)

	out := r.plan(n).Sequence(nil, shaped)

	// gonum leaves the inverse unnormalized (factor n); the n/inLen
	// amplitude correction folds into a single 1/inLen.
	f64.Scale(out, out, 1.0/float64(inLen))
	return out, nil
}

// reshapeSpectrum maps the inLen-point half spectrum onto an outLen-point
// half spectrum, splitting or folding the Nyquist bin of the shared band.
func reshapeSpectrum(spectrum []complex128, inLen, outLen int) []complex128 {
	shaped := make([]complex128, outLen/hermitianDivisor+1)

	shared := min(inLen, outLen)
	copy(shaped, spectrum[:shared/hermitianDivisor+1])

	if shared%hermitianDivisor == 0 {
		nyq := shared / hermitianDivisor
		if outLen < inLen {
			shaped[nyq] *= nyquistFold
		} else {
			shaped[nyq] *= nyquistSplit
		}
	}

	// Real sequences have purely real DC and even-length Nyquist terms.
	shaped[0] = complex(real(shaped[0]), 0)
	if outLen%hermitianDivisor == 0 {
		last := len(shaped) - 1
		shaped[last] = complex(real(shaped[last]), 0)
	}

	return shaped
}
