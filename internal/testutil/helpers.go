// Package testutil provides reusable signal generators and assertions for
// sonification tests.
package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance  = 1e-10
	ResampleTolerance = 1e-9
)

// Sine returns n samples of amp*sin(2*pi*cycles*i/n).
// With an integer cycle count the sequence is exactly periodic, which is what
// spectral resampling assumes.
func Sine(n int, cycles, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*cycles*float64(i)/float64(n))
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t assert.TestingT, s []float64, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, fmt.Sprintf("found NaN: s[%d] is NaN", i), msgAndArgs...)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, fmt.Sprintf("found Inf: s[%d] is %v", i, v), msgAndArgs...)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t assert.TestingT, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t,
				fmt.Sprintf("value out of range: s[%d]=%f is outside [%f, %f]", i, v, minVal, maxVal),
				msgAndArgs...)
		}
	}
	return true
}

// AssertSamplesInDelta compares two sequences element by element.
func AssertSamplesInDelta(t *testing.T, expected, actual []float64, delta float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if math.Abs(expected[i]-actual[i]) > delta {
			return assert.Fail(t, "sample mismatch",
				"s[%d]=%g, want %g (delta %g)", i, actual[i], expected[i], delta)
		}
	}
	return true
}

// AssertAllZero verifies that every int16 sample is silent.
func AssertAllZero(t *testing.T, s []int16) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "non-zero sample", "s[%d]=%d", i, v)
		}
	}
	return true
}

// PeakInt16 returns the largest and smallest sample.
func PeakInt16(s []int16) (hi, lo int16) {
	for _, v := range s {
		hi = max(hi, v)
		lo = min(lo, v)
	}
	return hi, lo
}
