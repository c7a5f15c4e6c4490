// Package level implements the amplitude stages of the sonification chain:
// peak normalization, clamped gain and 16-bit quantization.
package level

import (
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Quantization and gain limits.
const (
	// FullScale maps a normalized sample of 1.0 to the int16 code.
	// The negative extreme is -FullScale, never math.MinInt16.
	FullScale = 32767.0

	minGain = 0.0
	maxGain = 1.0
)

// Peak returns max(|x|). An empty sequence has peak 0.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Max(floats.Max(x), -floats.Min(x))
}

// Normalize scales x so that its peak magnitude is exactly 1.
// For all-zero input it returns an unchanged copy and ok=false.
// The input is never modified.
func Normalize(x []float64) (y []float64, ok bool) {
	y = make([]float64, len(x))
	peak := Peak(x)
	if peak == 0 {
		copy(y, x)
		return y, false
	}
	for i, v := range x {
		y[i] = v / peak
	}
	return y, true
}

// ClampGain limits g to [0, 1]. NaN is treated as silence.
func ClampGain(g float64) float64 {
	if math.IsNaN(g) {
		return minGain
	}
	return math.Min(math.Max(g, minGain), maxGain)
}

// ApplyGain returns x scaled by the clamped gain.
func ApplyGain(x []float64, gain float64) []float64 {
	y := make([]float64, len(x))
	f64.Scale(y, x, ClampGain(gain))
	return y
}

// Quantize converts samples in [-1, 1] to int16 codes using
// round-half-to-even of x*FullScale. Out-of-range input saturates at
// ±FullScale and NaN becomes 0.
func Quantize(x []float64) []int16 {
	out := make([]int16, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		q := math.RoundToEven(v * FullScale)
		q = math.Min(math.Max(q, -FullScale), FullScale)
		out[i] = int16(q)
	}
	return out
}
